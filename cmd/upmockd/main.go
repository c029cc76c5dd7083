// upmockd serves a local mock of the Up API, seeded with sample accounts and
// transactions. Point upsyncd at it with UP_API_BASE_URL for development runs
// that never touch the live API.
package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"upsync/internal/mockup"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	viper.SetDefault("UP_TOKEN", "up:demo:token")
	viper.SetDefault("MOCK_PORT", "8090")
	viper.AutomaticEnv()

	token := viper.GetString("UP_TOKEN")
	port := viper.GetString("MOCK_PORT")

	gin.SetMode(gin.ReleaseMode)
	server := mockup.NewServer(token)
	server.SeedSampleData()

	logger.Info("Mock Up API listening", slog.String("port", port))
	if err := server.Router().Run(":" + port); err != nil {
		logger.Error("Mock server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
