package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	RootCmd.AddCommand(ServeCmd)
	ServeCmd.Flags().String("address", ":8080", "listen address")
	viper.BindPFlag("server.address", ServeCmd.Flags().Lookup("address"))
}

var (
	ServeCmd = &cobra.Command{
		Use:   ServeCmdName,
		Short: ServeCmdShort,
		Long:  ServeCmdLong,
		RunE:  serveCmdFunc(),
	}
)

func serveCmdFunc() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		a.log.WithField("origin", a.engine.Origin()).Info("Started serve cmd")

		serve := server.NewHTTPServer(a.cfg.Server.Address, a.engine, a.log.WithField("component", "http"))

		signalCh := make(chan os.Signal, 1)
		signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

		errCh := make(chan error, 1)
		go func() {
			a.log.WithField("address", serve.Addr).Info("listening")
			if err := serve.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case sig := <-signalCh:
			a.log.Infof("Shutdown the server...%s", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return serve.Shutdown(ctx)
	}
}
