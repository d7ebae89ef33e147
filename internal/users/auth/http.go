// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/solosession/internal/platform/apperr"
	"github.com/taibuivan/solosession/internal/platform/constants"
	"github.com/taibuivan/solosession/internal/platform/ctxutil"
	"github.com/taibuivan/solosession/internal/platform/middleware"
	requestutil "github.com/taibuivan/solosession/internal/platform/request"
	"github.com/taibuivan/solosession/internal/platform/respond"
	"github.com/taibuivan/solosession/internal/platform/sec"
	"github.com/taibuivan/solosession/internal/platform/validate"
)

// # Definitions & Constructors

// Pages locates the HTML documents served by the handler.
type Pages struct {
	Login string
	Home  string
}

// PagesIn returns the default page locations inside dir.
func PagesIn(dir string) Pages {
	return Pages{
		Login: filepath.Join(dir, "login.html"),
		Home:  filepath.Join(dir, "home.html"),
	}
}

// CookiePolicy controls the attributes of the session cookie.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
}

// CookiePolicyFor returns Secure + SameSite=None in production (the login page
// may be embedded cross-site behind a TLS proxy) and SameSite=Lax elsewhere.
func CookiePolicyFor(production bool) CookiePolicy {
	if production {
		return CookiePolicy{Secure: true, SameSite: http.SameSiteNoneMode}
	}
	return CookiePolicy{SameSite: http.SameSiteLaxMode}
}

// Handler implements the login, logout and session probe endpoints, and the
// middleware guarding protected pages.
type Handler struct {
	issuer *Issuer
	gate   *Gate
	signer *sec.CookieSigner
	pages  Pages
	cookie CookiePolicy
}

// NewHandler constructs a new [Handler].
func NewHandler(issuer *Issuer, gate *Gate, signer *sec.CookieSigner, pages Pages, cookie CookiePolicy) *Handler {
	return &Handler{
		issuer: issuer,
		gate:   gate,
		signer: signer,
		pages:  pages,
		cookie: cookie,
	}
}

// Routes returns a [chi.Router] with every session route.
//
// # Endpoints
//   - GET  /login          : Login page.
//   - POST /login          : Starts a session.
//   - GET  /home           : Protected page.
//   - GET  /session/status : Side-effect free session probe (JSON).
//   - POST /logout         : Ends the session.
//
// Older paths (/iniciar-sesion, /verificar-sesion) stay reachable for
// bookmarks and polling clients.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get(constants.PathLogin, handler.loginPage)
	router.Post(constants.PathLogin, handler.login)
	router.Get(constants.PathSessionStatus, handler.status)
	router.Post(constants.PathLogout, handler.logout)

	// Older links to the login page and the status endpoint.
	router.Get("/iniciar-sesion", handler.legacyLogin)
	router.Get("/iniciar sesión", handler.legacyLogin)
	router.Get("/verificar-sesion", handler.status)

	router.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Page"))
	})

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(handler.RequireSession)
		r.Get(constants.PathHome, handler.home)
	})

	return router
}

/*
RequireSession admits a request only if the gate accepts its session.

Description: Any denial redirects to the login page. A session superseded by a
newer login redirects with error=session so the page can explain why.
*/
func (handler *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		sessionID, reason := handler.sessionID(request)
		verdict := deny(reason)
		if reason == ReasonNone {
			verdict = handler.gate.Authorize(ctx, sessionID)
		}

		if !verdict.Authenticated() {
			ctxutil.GetLogger(ctx).DebugContext(ctx, "session_denied", slog.String("reason", string(verdict.Reason)))

			if requestutil.CookieValue(request, constants.SessionCookieName) != "" {
				handler.clearCookie(writer)
			}

			var query url.Values
			if verdict.Reason == ReasonVersionConflict {
				query = url.Values{constants.QueryError: {constants.ErrorHintSession}}
			}
			respond.Redirect(writer, request, constants.PathLogin, query)
			return
		}

		if recorder, ok := writer.(middleware.UsernameRecorder); ok {
			recorder.RecordUsername(verdict.Username)
		}

		ctx = ctxutil.WithUsername(ctx, verdict.Username)
		ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("username", verdict.Username)))

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

/*
Login starts a session for the submitted username.

POST /login

Request:
  - Form: username

Response:
  - 303: /home with the session cookie set
  - 303: /login?error=1 for a blank, invalid or unknown username
  - 503: ErrorEnvelope when the registry or store cannot be written
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	username, err := requestutil.FormValue(request, FieldUsername)
	if err != nil {
		handler.loginFailed(writer, request)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Printable(FieldUsername, username)

	if validator.HasErrors() {
		logger.DebugContext(ctx, "login_rejected", slog.Any("error", validator.Err()))
		handler.loginFailed(writer, request)
		return
	}

	previousID, previousReason := handler.sessionID(request)

	issued, err := handler.issuer.Issue(ctx, username)
	if err != nil {
		if errors.Is(err, ErrBlankUsername) || errors.Is(err, ErrUnknownUser) {
			logger.InfoContext(ctx, "login_rejected", slog.String("reason", err.Error()))
			handler.loginFailed(writer, request)
			return
		}
		respond.Error(writer, request, apperr.ServiceUnavailable("Login is temporarily unavailable", err))
		return
	}

	// A browser logging in again drops its previous record once the new one exists.
	if previousReason == ReasonNone && previousID != issued.SessionID {
		if err := handler.issuer.Logout(ctx, previousID); err != nil {
			logger.WarnContext(ctx, "login_previous_session_destroy_failed", slog.Any("error", err))
		}
	}

	token, err := handler.signer.Sign(issued.SessionID, handler.issuer.TTL())
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	handler.setCookie(writer, token, handler.issuer.TTL())
	respond.Redirect(writer, request, constants.PathHome, nil)
}

/*
Status reports whether the caller's session is still valid.

GET /session/status

Description: Runs the gate without side effects so polling clients can detect
a forced logout without destroying anything.

Response:
  - 200: {"authenticated": true, "username": "..."}
  - 401: ErrorEnvelope whose code is the denial reason in upper case
*/
func (handler *Handler) status(writer http.ResponseWriter, request *http.Request) {
	sessionID, reason := handler.sessionID(request)
	verdict := deny(reason)
	if reason == ReasonNone {
		verdict = handler.gate.Probe(request.Context(), sessionID)
	}

	if !verdict.Authenticated() {
		respond.Error(writer, request,
			apperr.Unauthorized("Session expired").WithCode(strings.ToUpper(string(verdict.Reason))))
		return
	}

	respond.OK(writer, map[string]any{
		FieldAuthenticated: true,
		FieldUsername:      verdict.Username,
	})
}

/*
Logout ends the caller's session.

POST /logout

Description: Idempotent. The cookie is cleared even when there was no session
or the store could not be reached.

Response:
  - 303: /login
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	if sessionID, reason := handler.sessionID(request); reason == ReasonNone {
		if err := handler.issuer.Logout(ctx, sessionID); err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "logout_destroy_failed", slog.Any("error", err))
		}
	}

	handler.clearCookie(writer)
	respond.Redirect(writer, request, constants.PathLogin, nil)
}

func (handler *Handler) loginPage(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Cache-Control", "no-store")
	http.ServeFile(writer, request, handler.pages.Login)
}

func (handler *Handler) home(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestutil.RequiredUsername(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Cache-Control", "no-store")
	http.ServeFile(writer, request, handler.pages.Home)
}

func (handler *Handler) legacyLogin(writer http.ResponseWriter, request *http.Request) {
	http.Redirect(writer, request, constants.PathLogin, http.StatusMovedPermanently)
}

// # Cookie Helpers

// sessionID extracts and verifies the session cookie. A non-empty Reason means
// there is no usable id.
func (handler *Handler) sessionID(request *http.Request) (string, Reason) {
	token := requestutil.CookieValue(request, constants.SessionCookieName)
	if token == "" {
		return "", ReasonNoSession
	}

	sessionID, err := handler.signer.Verify(token)
	if err != nil {
		if errors.Is(err, sec.ErrExpiredCookie) {
			return "", ReasonExpired
		}
		return "", ReasonNoSession
	}

	return sessionID, ReasonNone
}

func (handler *Handler) loginFailed(writer http.ResponseWriter, request *http.Request) {
	respond.Redirect(writer, request, constants.PathLogin, url.Values{
		constants.QueryError: {constants.ErrorHintLogin},
	})
}

func (handler *Handler) setCookie(writer http.ResponseWriter, token string, timeToLive time.Duration) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(timeToLive.Seconds()),
		Secure:   handler.cookie.Secure,
		HttpOnly: true,
		SameSite: handler.cookie.SameSite,
	})
}

func (handler *Handler) clearCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   handler.cookie.Secure,
		HttpOnly: true,
		SameSite: handler.cookie.SameSite,
	})
}
