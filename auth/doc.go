// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides reference-code generation and IP hashing.

# Reference Codes

Every accepted submission gets a short code the submitter can quote later:

	ref, err := auth.GenerateReference(auth.PrefixFeedback, time.Now())
	// FB-20261018-K7QX

The format is {PREFIX}-{YYYYMMDD}-{CODE}:

  - PREFIX: two letters naming the submission kind (FB, RX, DC)
  - YYYYMMDD: the server's current UTC date
  - CODE: four symbols drawn from ReferenceAlphabet with crypto/rand

ReferenceAlphabet has 32 symbols and leaves out I, O, 0 and 1.

# IP Hashing

For privacy-preserving abuse tracking:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
