// Package bootstrap runs a storekit process: typed configuration, logger
// initialization, ordered component start, a startup summary, signal
// handling and graceful shutdown.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(storeComponent)
//	app.RegisterComponent(serverComponent)
//	return app.Run(ctx)
//
// Components start in registration order and stop in reverse. OnStop hooks
// run after the components are stopped.
package bootstrap
