package main

import "github.com/taskhive/taskhive/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()
	app.MustMigratePostgres()

	app.MustInitServices()
	app.StartScheduler()
	defer app.StopScheduler()

	app.MustListenAndServeHTTP()
}
