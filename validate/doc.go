// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package validate provides field-level predicates used by the HTTP handlers.

Handlers collect the names of failing fields and respond 422 before any
request reaches the token or ledger packages, so malformed identifiers never
hit the voting core:

	var bad []string
	if !validate.IsValidEmail(req.Email) {
		bad = append(bad, "email")
	}
	if len(bad) > 0 {
		middleware.FieldErrorResponse(w, bad)
		return
	}

Available predicates:

  - IsValidEmail: syntactic email shape
  - IsValidDate: canonical YYYY-MM-DD string
  - IsAfterToday: valid date strictly in the future
  - IsUniqueList: all strings distinct
  - IsPositive: n > 0
*/
package validate
