package models

import "time"

// Vote categories
const (
	CategoryFavorite   = "favorite"
	CategoryInnovative = "innovative"
	CategoryInclusive  = "inclusive"
)

// Feedback tags accepted by submit-feedback; anything else is dropped
const (
	TagEasyToUse     = "easy-to-use"
	TagLooksGreat    = "looks-great"
	TagSolvesProblem = "solves-problem"
	TagWouldShare    = "would-share"
)

// Concern types accepted by submit-concern
const (
	ConcernDeleteData     = "delete_data"
	ConcernDataInquiry    = "data_inquiry"
	ConcernPrivacyConcern = "privacy_concern"
	ConcernOther          = "other"
)

// Submission kinds, used for moderation tickets and metrics
const (
	KindFeedback = "feedback"
	KindRemix    = "remix"
	KindConcern  = "concern"
)

// Concern status constants
const (
	ConcernStatusOpen = "open"
)

// Remix limits shared by the cart engine and the endpoint
const (
	MaxRemixFeatures    = 20
	MaxRemixSubmissions = 2
)

// DuplicateCode is the SQLSTATE for unique_violation. Conflict responses carry
// it so clients can treat "already recorded" as success.
const DuplicateCode = "23505"

var Categories = []string{CategoryFavorite, CategoryInnovative, CategoryInclusive}

var FeedbackTags = []string{TagEasyToUse, TagLooksGreat, TagSolvesProblem, TagWouldShare}

var ConcernTypeLabels = map[string]string{
	ConcernDeleteData:     "Delete my server data",
	ConcernDataInquiry:    "What data do you have about me?",
	ConcernPrivacyConcern: "Report a privacy concern",
	ConcernOther:          "Something else",
}

// IsCategory reports whether c is a known vote category
func IsCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Request types

type FeedbackRequest struct {
	SubmissionID string   `json:"submission_id" validate:"required,max=100"`
	AuthorName   string   `json:"author_name,omitempty" validate:"max=50"`
	FeedbackText string   `json:"feedback_text,omitempty" validate:"max=500"`
	Tags         []string `json:"tags,omitempty" validate:"dive,oneof=easy-to-use looks-great solves-problem would-share"`
	DeviceID     string   `json:"device_id,omitempty" validate:"max=100"`
}

type RemixFeature struct {
	ID               string `json:"id" validate:"required,max=100"`
	Name             string `json:"name" validate:"max=100"`
	Icon             string `json:"icon,omitempty" validate:"max=10"`
	SourceSubmission string `json:"sourceSubmission,omitempty" validate:"max=100"`
	SourceTitle      string `json:"sourceTitle,omitempty" validate:"max=200"`
}

type RemixRequest struct {
	DeviceID   string         `json:"device_id" validate:"required,max=100"`
	AuthorName string         `json:"author_name,omitempty" validate:"max=50"`
	UserNote   string         `json:"user_note,omitempty" validate:"max=500"`
	Features   []RemixFeature `json:"features" validate:"required,min=1,max=20,dive"`
}

type ConcernRequest struct {
	ConcernType string `json:"concern_type" validate:"required,oneof=delete_data data_inquiry privacy_concern other"`
	Details     string `json:"details" validate:"required,min=10,max=2000"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=320"`
	DeviceID    string `json:"device_id,omitempty" validate:"max=100"`
}

type VoteInsert struct {
	SubmissionID     string `json:"submission_id"`
	Category         string `json:"category"`
	VoterFingerprint string `json:"voter_fingerprint"`
}

type FeedbackUpvoteInsert struct {
	FeedbackID       string `json:"feedback_id"`
	VoterFingerprint string `json:"voter_fingerprint"`
}

type RemixUpvoteInsert struct {
	RemixID          string `json:"remix_id"`
	VoterFingerprint string `json:"voter_fingerprint"`
}

// Response types

type SubmissionResponse struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

type InsertResponse struct {
	ID string `json:"id"`
}

// VoteCount is one row of the vote_counts aggregate
type VoteCount struct {
	SubmissionID string `json:"submission_id"`
	Category     string `json:"category"`
	Count        int    `json:"count"`
}

// VoteEvent is pushed to realtime subscribers for every stored vote
type VoteEvent struct {
	SubmissionID string `json:"submission_id"`
	Category     string `json:"category"`
}

// DeviceData counts the rows held server-side for one device
type DeviceData struct {
	Votes           int64 `json:"votes"`
	Feedback        int64 `json:"feedback"`
	FeedbackUpvotes int64 `json:"feedback_upvotes"`
	Remixes         int64 `json:"remixes"`
	RemixUpvotes    int64 `json:"remix_upvotes"`
	Concerns        int64 `json:"concerns"`
}

type DeleteDataResponse struct {
	Deleted   DeviceData `json:"deleted"`
	DeletedAt time.Time  `json:"deleted_at"`
}

// Error response

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
