package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"uplevel/cmd/fx/audit_fx"
	"uplevel/cmd/fx/autoship_fx"
	"uplevel/cmd/fx/commission_fx"
	"uplevel/cmd/fx/db_fx"
	"uplevel/cmd/fx/matrix_fx"
	"uplevel/cmd/fx/payout_fx"
	"uplevel/cmd/fx/plan_fx"
	"uplevel/cmd/fx/rank_fx"
	"uplevel/cmd/fx/scheduler_fx"
	"uplevel/internal/api/controllers"
	"uplevel/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		db_fx.Module,
		plan_fx.Module,
		audit_fx.Module,
		matrix_fx.Module,
		commission_fx.Module,
		rank_fx.Module,
		payout_fx.Module,
		autoship_fx.Module,
		scheduler_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Println("Starting HTTP server at ${PORT}")
				if err := engine.Run(":" + os.Getenv("PORT")); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	matrixController *controllers.MatrixController,
	commissionController *controllers.CommissionController,
	rankController *controllers.RankController,
	payoutController *controllers.PayoutController,
	planController *controllers.PlanController,
	autoshipController *controllers.AutoshipController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, matrixController, commissionController, rankController,
		payoutController, planController, autoshipController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	matrixController *controllers.MatrixController,
	commissionController *controllers.CommissionController,
	rankController *controllers.RankController,
	payoutController *controllers.PayoutController,
	planController *controllers.PlanController,
	autoshipController *controllers.AutoshipController) {

	r.POST("/enrollments", matrixController.Enroll)

	matrixGroup := r.Group("/matrix")
	matrixGroup.GET("/:userId/downline", matrixController.GetDownline)
	matrixGroup.GET("/:userId/upline", matrixController.GetUpline)

	r.POST("/orders/:orderId/commissions", commissionController.ProcessOrderCommissions)

	ranksGroup := r.Group("/ranks")
	ranksGroup.GET("/:userId/qualification", rankController.GetQualification)
	ranksGroup.POST("/:userId/advance", rankController.ProcessAdvancement)

	r.GET("/plan", planController.GetPlan)

	autoshipGroup := r.Group("/autoships")
	autoshipGroup.POST("", autoshipController.Create)
	autoshipGroup.POST("/:id/pause", autoshipController.Pause)
	autoshipGroup.POST("/:id/cancel", autoshipController.Cancel)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	adminGroup.POST("/payouts", payoutController.CreateBatch)
	adminGroup.GET("/payouts/due", payoutController.ListDue)
	adminGroup.POST("/payouts/:id/failure", payoutController.ReportFailure)
	adminGroup.POST("/payouts/:id/reset", payoutController.Reset)
	adminGroup.POST("/payouts/:id/resolve", payoutController.Resolve)
}
