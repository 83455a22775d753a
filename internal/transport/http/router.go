package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/sindoca/api/internal/application/message"
	"github.com/sindoca/api/internal/application/music"
	"github.com/sindoca/api/internal/application/notification"
	"github.com/sindoca/api/internal/application/photo"
	"github.com/sindoca/api/internal/application/preference"
	"github.com/sindoca/api/internal/application/reaction"
	"github.com/sindoca/api/internal/application/reason"
	"github.com/sindoca/api/internal/application/reminder"
	"github.com/sindoca/api/internal/application/session"
	"github.com/sindoca/api/internal/application/subscription"
	"github.com/sindoca/api/internal/application/user"
	"github.com/sindoca/api/internal/application/workspace"
	"github.com/sindoca/api/internal/config"
	"github.com/sindoca/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/sindoca/api/internal/infrastructure/jwt"
	s3infra "github.com/sindoca/api/internal/infrastructure/s3"
	"github.com/sindoca/api/internal/infrastructure/smtp"
	"github.com/sindoca/api/internal/infrastructure/sns"
	"github.com/sindoca/api/internal/infrastructure/spotify"
	"github.com/sindoca/api/internal/infrastructure/webpush"
	"github.com/sindoca/api/internal/transport/http/handler"
	appmiddleware "github.com/sindoca/api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.SessionRepo
	WorkspaceRepo    *dynamo.WorkspaceRepo
	PhotoRepo        *dynamo.PhotoRepo
	MessageRepo      *dynamo.MessageRepo
	ReactionRepo     *dynamo.ReactionRepo
	ReasonRepo       *dynamo.ReasonRepo
	NotificationRepo *dynamo.NotificationRepo
	SubscriptionRepo *dynamo.SubscriptionRepo
	PreferenceRepo   *dynamo.PreferenceRepo
	MusicTokenRepo   *dynamo.MusicTokenRepo
	S3Store          *s3infra.Store
	PushSender       webpush.Sender
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender
	SpotifyClient    spotify.Client
	JWTProvider      *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	notifSvc := notification.NewService(notification.ServiceDeps{
		SubscriptionRepo: deps.SubscriptionRepo,
		PreferenceRepo:   deps.PreferenceRepo,
		NotificationRepo: deps.NotificationRepo,
		Sender:           deps.PushSender,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo: deps.SessionRepo,
		UserRepo:    deps.UserRepo,
		Signer:      deps.JWTProvider,
		RefreshDur:  cfg.RefreshTokenDur,
	})
	userSvc := user.NewService(deps.UserRepo)
	workspaceSvc := workspace.NewService(workspace.ServiceDeps{
		WorkspaceRepo: deps.WorkspaceRepo,
		UserRepo:      deps.UserRepo,
		Mailer:        deps.Mailer,
		Config:        cfg,
	})
	photoSvc := photo.NewService(photo.ServiceDeps{
		PhotoRepo:   deps.PhotoRepo,
		ObjectStore: deps.S3Store,
		UserRepo:    deps.UserRepo,
		Notifier:    notifSvc,
	})
	messageSvc := message.NewService(message.ServiceDeps{
		MessageRepo: deps.MessageRepo,
		UserRepo:    deps.UserRepo,
		Notifier:    notifSvc,
	})
	reactionSvc := reaction.NewService(reaction.ServiceDeps{
		ReactionRepo: deps.ReactionRepo,
		UserRepo:     deps.UserRepo,
		Notifier:     notifSvc,
	})
	reasonSvc := reason.NewService(reason.ServiceDeps{
		ReasonRepo: deps.ReasonRepo,
		UserRepo:   deps.UserRepo,
		Notifier:   notifSvc,
	})
	subscriptionSvc := subscription.NewService(deps.SubscriptionRepo)
	preferenceSvc := preference.NewService(deps.PreferenceRepo)
	musicSvc := music.NewService(deps.MusicTokenRepo, deps.SpotifyClient)
	reminderSvc := reminder.NewService(reminder.ServiceDeps{
		UserRepo: deps.UserRepo,
		Notifier: notifSvc,
		SMS:      deps.SMSSender,
	})

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(sessionSvc)
	userH := handler.NewUserHandler(userSvc)
	workspaceH := handler.NewWorkspaceHandler(workspaceSvc)
	inviteH := handler.NewInviteHandler(workspaceSvc)
	photoH := handler.NewPhotoHandler(photoSvc)
	messageH := handler.NewMessageHandler(messageSvc)
	reactionH := handler.NewReactionHandler(reactionSvc)
	reasonH := handler.NewReasonHandler(reasonSvc)
	musicH := handler.NewMusicHandler(musicSvc)
	subscriptionH := handler.NewSubscriptionHandler(subscriptionSvc)
	preferenceH := handler.NewPreferenceHandler(preferenceSvc)
	notifH := handler.NewNotificationHandler(notifSvc, reminderSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/invite", inviteH.Verify)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.Post("/sessions/refresh", sessionH.Refresh)

		// ── Internal routes (shared secret, hit by external cron) ────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.SharedSecret(cfg.NotifySharedSecret))

			r.Post("/internal/notify", notifH.Notify)
			r.Post("/internal/daily-reminder", notifH.DailyReminder)
		})

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)
			r.Post("/sessions/logout-all", sessionH.LogoutAll)

			r.Get("/users/me", userH.Me)
			r.Put("/users/me", userH.Update)
			r.Post("/users/me/password", userH.ChangePassword)
			r.Get("/users", userH.Members)

			r.Get("/workspace", workspaceH.Get)
			r.Put("/workspace", workspaceH.Update)

			r.Get("/photos", photoH.List)
			r.Post("/photos", photoH.Upload)
			r.Post("/photos/base64", photoH.UploadBase64)
			r.Get("/photos/{id}", photoH.Get)
			r.Put("/photos/{id}", photoH.UpdateCaption)
			r.Delete("/photos/{id}", photoH.Delete)

			r.Get("/messages", messageH.List)
			r.Post("/messages", messageH.Create)
			r.Delete("/messages/{id}", messageH.Delete)

			r.Post("/reactions", reactionH.Create)
			r.Get("/reactions/content/{contentID}", reactionH.ListByContent)
			r.Delete("/reactions/{id}", reactionH.Delete)

			r.Get("/reasons", reasonH.List)
			r.Post("/reasons", reasonH.Create)
			r.Put("/reasons/{id}", reasonH.Update)
			r.Delete("/reasons/{id}", reasonH.Delete)

			r.Post("/music/connect", musicH.Connect)
			r.Delete("/music/connect", musicH.Disconnect)
			r.Get("/music/now-playing", musicH.NowPlaying)

			r.Post("/subscriptions", subscriptionH.Register)
			r.Get("/subscriptions", subscriptionH.List)
			r.Delete("/subscriptions", subscriptionH.Remove)

			r.Get("/preferences", preferenceH.Get)
			r.Patch("/preferences", preferenceH.Update)

			r.Get("/notifications", notifH.ListUnread)
			r.Put("/notifications/{id}", notifH.MarkAsRead)
			r.Post("/notify/test", notifH.SendTest)
		})
	})

	return r
}
