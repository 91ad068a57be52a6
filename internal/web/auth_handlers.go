package web

import (
	"net/http"

	"github.com/FACorreiaa/ledger/internal/domain/auth"
	"github.com/FACorreiaa/ledger/internal/ledgererr"
)

type registerFormView struct {
	Error string
}

func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.tmpl, "register", "", registerFormView{})
}

// Register handles the registration form's POST (spec.md §4.7:
// "Rejected if a user already exists, if the password is too weak, or if
// they differ"). On success it logs the new user in immediately, the
// same way the form UX implies (no separate login step after signup).
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	user, err := h.authSvc.Register(r.Context(), password, confirm)
	if err != nil {
		w.WriteHeader(statusFor(ledgererr.KindOf(err)))
		render(w, r, h.tmpl, "register", "", registerFormView{Error: err.Error()})
		return
	}

	if err := h.codec.SetAuthCookies(w, user.ID, auth.DefaultDuration); err != nil {
		writeError(w, r, err)
		return
	}
	redirectForForm(w, r, "", DashboardView)
}

type loginFormView struct {
	Error       string
	RedirectURL string
}

func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.tmpl, "login", "", loginFormView{RedirectURL: r.URL.Query().Get("redirect_url")})
}

// Login handles the login form's POST. remember_me switches the session
// duration from DefaultDuration to RememberMeDuration (spec.md §4.6/§6).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURL := r.FormValue("redirect_url")
	password := r.FormValue("password")

	user, err := h.authSvc.Login(r.Context(), password)
	if err != nil {
		w.WriteHeader(statusFor(ledgererr.KindOf(err)))
		render(w, r, h.tmpl, "login", "", loginFormView{
			Error:       "Incorrect email or password.",
			RedirectURL: redirectURL,
		})
		return
	}

	duration := auth.DefaultDuration
	if r.FormValue("remember_me") != "" {
		duration = auth.RememberMeDuration
	}
	if err := h.codec.SetAuthCookies(w, user.ID, duration); err != nil {
		writeError(w, r, err)
		return
	}

	redirectForForm(w, r, redirectURL, DashboardView)
}

// Logout invalidates both session cookies and sends the user back to the
// login page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.codec.InvalidateAuthCookies(w)
	redirectForForm(w, r, "", LoginView)
}
