// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides cookie and form plumbing behind small helpers so handlers stay focused
on the flow they implement.
*/
package requestutil

import (
	"net/http"

	"github.com/taibuivan/solosession/internal/platform/apperr"
	"github.com/taibuivan/solosession/internal/platform/ctxutil"
)

/*
CookieValue returns the value of the named cookie, or "" when it is absent.
*/
func CookieValue(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

/*
FormValue parses a urlencoded or multipart body and returns the named field.

Returns:
  - string: The raw field value (untrimmed)
  - error: apperr.ValidationError if the body cannot be parsed
*/
func FormValue(request *http.Request, name string) (string, error) {
	if err := request.ParseForm(); err != nil {
		return "", apperr.ValidationError("Invalid form payload")
	}
	return request.PostFormValue(name), nil
}

/*
RequiredUsername returns the username admitted by the session gate.

Returns:
  - string: Normalized username
  - error: apperr.Unauthorized if the request did not pass the gate
*/
func RequiredUsername(request *http.Request) (string, error) {
	username := ctxutil.GetUsername(request.Context())
	if username == "" {
		return "", apperr.Unauthorized("Authentication required")
	}
	return username, nil
}
