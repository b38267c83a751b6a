package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"omrhub/admin-api/config"
	"omrhub/admin-api/handlers"
	"omrhub/admin-api/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger()

	db, err := config.NewSupabaseClient(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	h := handlers.NewApplicationHandler(db, logger, cfg)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger(logger))

	// Public surface.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/l/:type/:id", h.DeepLink)
	app.Get("/.well-known/apple-app-site-association", h.AppSiteAssociation)

	// Privileged surface: every route below runs the access guard first.
	admin := app.Group("/api/admin", middleware.RequireAdmin(db, cfg, logger))

	admin.Get("/exercises", h.ListExercises)
	admin.Post("/exercises", h.CreateExercise)
	admin.Get("/exercises/:id", h.GetExercise)
	admin.Patch("/exercises/:id", h.UpdateExercise)
	admin.Delete("/exercises/:id", h.DeleteExercise)
	admin.Post("/exercises/:id/media", h.UploadExerciseMedia)

	admin.Get("/activities", h.ListActivities)
	admin.Post("/activities", h.CreateActivity)
	admin.Get("/activities/:id", h.GetActivity)
	admin.Patch("/activities/:id", h.UpdateActivity)
	admin.Delete("/activities/:id", h.DeleteActivity)

	admin.Get("/workouts", h.ListWorkouts)
	admin.Post("/workouts", h.CreateWorkout)
	admin.Get("/workouts/:id", h.GetWorkout)
	admin.Patch("/workouts/:id", h.UpdateWorkout)
	admin.Delete("/workouts/:id", h.DeleteWorkout)

	admin.Get("/challenges", h.ListChallenges)
	admin.Post("/challenges", h.CreateChallenge)
	admin.Get("/challenges/:id", h.GetChallenge)
	admin.Patch("/challenges/:id", h.UpdateChallenge)
	admin.Delete("/challenges/:id", h.DeleteChallenge)

	admin.Get("/challenges/:id/participants", h.ListParticipants)
	admin.Post("/challenges/:id/participants/:participantId/approve", h.ApproveParticipant)
	admin.Delete("/challenges/:id/participants/:participantId", h.RemoveParticipant)

	admin.Get("/events", h.ListEvents)
	admin.Post("/events", h.CreateEvent)
	admin.Get("/events/:id", h.GetEvent)
	admin.Patch("/events/:id", h.UpdateEvent)
	admin.Delete("/events/:id", h.DeleteEvent)
	admin.Post("/events/:id/image", h.UploadEventImage)

	admin.Get("/users", h.ListUsers)
	admin.Get("/users/:id", h.GetUser)
	admin.Patch("/users/:id", h.UpdateUser)
	admin.Delete("/users/:id", h.DeleteUser)

	admin.Get("/template", h.GetTemplate)
	admin.Put("/template", h.SaveTemplate)

	admin.Get("/media/signed-url", h.GetSignedMediaURL)

	logger.Infof("Starting OMR Hub admin API on %s", cfg.ListenAddr)
	logger.Fatal(app.Listen(cfg.ListenAddr))
}
