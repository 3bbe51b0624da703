package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Park-yeongseo/Blog-Project/app_setting"
	"github.com/Park-yeongseo/Blog-Project/events"
	"github.com/Park-yeongseo/Blog-Project/oracle"
	"github.com/Park-yeongseo/Blog-Project/scheduler"
	"github.com/Park-yeongseo/Blog-Project/server"
	"github.com/Park-yeongseo/Blog-Project/utils"
	"github.com/Park-yeongseo/Blog-Project/utils/dotenv"
	Logger "github.com/Park-yeongseo/Blog-Project/utils/log"
)

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	setting := app_setting.ParseServerAppSetting(os.Getenv("APP_SETTING_PATH"))

	db, err := utils.GetDBConnection()
	if err != nil {
		panic(err)
	}
	utils.DatabaseSetupAndMigration(db)

	ctx := context.Background()

	// Process-scoped resources: redis connection, view event bus and the
	// background modules. Started here, torn down on exit.
	counter, err := utils.GetViewCounter(ctx)
	if err != nil {
		panic(err)
	}
	defer counter.Close()

	views := events.NewViewPipeline(counter)
	defer views.Close()

	flush := scheduler.NewViewFlushModule(db, counter)
	flush.Interval = time.Duration(setting.VIEW_FLUSH_INTERVAL_SECOND) * time.Second
	recompute := scheduler.NewTotalViewsRecomputeModule(db)
	recompute.Interval = time.Duration(setting.TOTAL_VIEWS_RECOMPUTE_INTERVAL_SECOND) * time.Second

	engine := scheduler.NewEngine(ctx, views, flush, recompute)
	engine.Start()
	defer engine.Shutdown()

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())

	srv := server.NewServer(db, oracle.NewClient(), views)
	srv.RegisterRoutes(router)

	router.GET("/healthy", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	Logger.Log.Info("api server starts up")
	router.Run(fmt.Sprintf(":%d", setting.SERVER_PORT))
}
