package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	accountDomain "gymdesk/internal/domain/account"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	username := ""
	if ok {
		role = sess.Role
		username = sess.Username
	}

	funcMap := template.FuncMap{
		"currentRole":     func() string { return role },
		"currentUsername": func() string { return username },
		"isLoggedIn":      func() bool { return role != "" },
		"isTrainer":       func() bool { return middleware.IsTrainer(r.Context()) },
		"csrfToken":       func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// registrationInputError reports whether err was caused by the submitted
// form rather than an internal failure.
func registrationInputError(err error) bool {
	return errors.Is(err, orchestrators.ErrUsernameTaken) ||
		errors.Is(err, orchestrators.ErrPasswordMismatch) ||
		errors.Is(err, accountDomain.ErrEmptyUsername) ||
		errors.Is(err, accountDomain.ErrUsernameTooLong) ||
		errors.Is(err, accountDomain.ErrUsernameSpaces) ||
		errors.Is(err, accountDomain.ErrInvalidEmail) ||
		errors.Is(err, accountDomain.ErrEmptyPassword) ||
		errors.Is(err, accountDomain.ErrPasswordTooShort)
}

// handleHome handles GET / (landing page)
func handleHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if !isHTMLRequest(r) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		return
	}
	renderTemplate(w, r, "home.html", nil)
}

// handleRegister handles GET (form) and POST (create account) for /register/
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard/", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "register.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		isHTML := isHTMLRequest(r)

		var input orchestrators.RegisterInput
		if isHTML {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input = orchestrators.RegisterInput{
				Username:  r.FormValue("Username"),
				Email:     r.FormValue("Email"),
				Password1: r.FormValue("Password1"),
				Password2: r.FormValue("Password2"),
			}
		} else {
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}

		deps := orchestrators.RegisterDeps{
			AccountStore: stores.AccountStore,
		}

		accountID, err := orchestrators.ExecuteRegister(r.Context(), input, deps)
		if err != nil {
			if !registrationInputError(err) {
				internalError(w, err)
				return
			}
			if isHTML {
				renderTemplate(w, r, "register.html", map[string]any{
					"CSRFToken": csrf.Token(r),
					"Error":     err.Error(),
					"Username":  input.Username,
					"Email":     input.Email,
				})
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// A fresh account is signed in immediately; the new member lands
		// on their dashboard rather than the login form.
		token, err := sessions.Create(accountID, input.Username, "member")
		if err != nil {
			internalError(w, err)
			return
		}
		middleware.SetSessionCookie(w, token)

		if isHTML {
			http.Redirect(w, r, "/dashboard/", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"ID": accountID})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogin handles GET (form) and POST (authenticate) for /login/
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		// If already logged in, redirect to dashboard
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard/", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		isHTML := isHTMLRequest(r)

		var input orchestrators.LoginInput
		if isHTML {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input = orchestrators.LoginInput{
				Username: r.FormValue("Username"),
				Password: r.FormValue("Password"),
			}
		} else {
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}

		deps := orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			if isHTML {
				renderTemplate(w, r, "login.html", map[string]any{
					"CSRFToken": csrf.Token(r),
					"Error":     err.Error(),
				})
				return
			}
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		token, err := sessions.Create(result.AccountID, result.Username, result.Role)
		if err != nil {
			internalError(w, err)
			return
		}
		middleware.SetSessionCookie(w, token)

		if isHTML {
			http.Redirect(w, r, "/dashboard/", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"AccountID": result.AccountID,
			"Username":  result.Username,
			"Role":      result.Role,
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout/
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Delete session
	cookie, err := r.Cookie("gymdesk_session")
	if err == nil {
		sessions.Delete(cookie.Value)
	}

	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login/", http.StatusSeeOther)
}

// handleDashboard handles GET /dashboard/ (behind RequireAuth)
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := projections.GetDashboardQuery{UserID: session.AccountID}
	deps := projections.GetDashboardDeps{
		SubscriptionStore: stores.SubscriptionStore,
		PlanStore:         stores.PlanStore,
		MessageStore:      stores.MessageStore,
	}

	result, err := projections.QueryGetDashboard(r.Context(), query, deps)
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "dashboard.html", map[string]any{
			"Subscription": result.Subscription,
			"Plan":         result.Plan,
			"CheckInPNG":   result.CheckInPNG,
			"UnreadCount":  result.UnreadCount,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handlePlans handles GET /plans/ (behind RequireAuth)
func handlePlans(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	plans, err := stores.PlanStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "plans.html", map[string]any{
			"Plans":     plans,
			"CSRFToken": csrf.Token(r),
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plans)
}

// handleSubscribe handles GET and POST for /subscribe/{plan_id}/ (behind
// RequireAuth).
// Enrolment is a state change and should be POST only, but the plan page
// links here directly, so GET is accepted too.
func handleSubscribe(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	if r.Method != "GET" && r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	planID := r.PathValue("plan_id")

	deps := orchestrators.SubscribeDeps{
		PlanStore:         stores.PlanStore,
		SubscriptionStore: stores.SubscriptionStore,
		AccountStore:      stores.AccountStore,
		Sender:            emailSender,
		GenerateID:        generateID,
		Now:               timeNow,
	}

	sub, err := orchestrators.ExecuteSubscribe(r.Context(), orchestrators.SubscribeInput{
		UserID: session.AccountID,
		PlanID: planID,
	}, deps)
	if err != nil {
		if errors.Is(err, orchestrators.ErrPlanNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/dashboard/", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sub)
}

// handleInbox handles GET /inbox/ (behind RequireAuth)
func handleInbox(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := projections.GetInboxQuery{
		UserID: session.AccountID,
		Role:   session.Role,
	}
	deps := projections.GetInboxDeps{
		AccountStore: stores.AccountStore,
		MessageStore: stores.MessageStore,
	}

	result, err := projections.QueryGetInbox(r.Context(), query, deps)
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "inbox.html", map[string]any{
			"Contacts": result.Contacts,
			"Messages": result.Messages,
			"ViewerID": session.AccountID,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleChat handles GET (conversation) and POST (send) for /chat/{user_id}/
// (behind RequireAuth)
func handleChat(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	counterpartID := r.PathValue("user_id")

	if r.Method == "POST" {
		isHTML := isHTMLRequest(r)

		var content string
		if isHTML {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			content = r.FormValue("Content")
		} else {
			var input struct {
				Content string `json:"Content"`
			}
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			content = input.Content
		}

		deps := orchestrators.SendMessageDeps{
			MessageStore: stores.MessageStore,
			AccountStore: stores.AccountStore,
			GenerateID:   generateID,
			Now:          timeNow,
		}

		msg, err := orchestrators.ExecuteSendMessage(r.Context(), orchestrators.SendMessageInput{
			SenderID:   session.AccountID,
			ReceiverID: counterpartID,
			Content:    content,
		}, deps)
		if err != nil {
			if errors.Is(err, orchestrators.ErrReceiverNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if isHTML {
			http.Redirect(w, r, "/chat/"+counterpartID+"/", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(msg)
		return
	}

	if r.Method == "GET" {
		query := projections.GetChatQuery{
			UserID:        session.AccountID,
			CounterpartID: counterpartID,
		}
		deps := projections.GetChatDeps{
			AccountStore: stores.AccountStore,
			MessageStore: stores.MessageStore,
		}

		result, err := projections.QueryGetChat(r.Context(), query, deps)
		if err != nil {
			if errors.Is(err, projections.ErrCounterpartNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			internalError(w, err)
			return
		}

		if isHTMLRequest(r) {
			renderTemplate(w, r, "chat.html", map[string]any{
				"Counterpart": result.Counterpart,
				"Messages":    result.Messages,
				"ViewerID":    session.AccountID,
				"CSRFToken":   csrf.Token(r),
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
