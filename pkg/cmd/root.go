package cmd

import (
	"net/http"
	"os"

	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/config"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/geocode"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/logger"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/pricing"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var RootCmd = &cobra.Command{
	Use:           RootCmdName,
	Short:         RootCmdShort,
	Long:          RootCmdLong,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {

	if code := execute(); code != 0 {
		os.Exit(code)
	}
}

func execute() int {
	if err := RootCmd.Execute(); err != nil {
		RootCmd.PrintErrln(err)
		return -1
	}
	return 0
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	RootCmd.PersistentFlags().String("log-level", "info", "log level")
	RootCmd.PersistentFlags().String("geocoder-contact", "", "operator contact embedded in the geocoder User-Agent")

	viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("geocoder.contact", RootCmd.PersistentFlags().Lookup("geocoder-contact"))
}

// app holds everything a command needs to price quotes
type app struct {
	cfg    config.Config
	log    *logrus.Logger
	engine *pricing.Engine
}

func newApp() (*app, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}

	l, err := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	geocoder := geocode.New(geocode.Options{
		BaseURL:    cfg.Geocoder.BaseURL,
		Contact:    cfg.Geocoder.Contact,
		Attempts:   cfg.Geocoder.Attempts,
		RetryDelay: cfg.Geocoder.RetryDelay,
		HTTPClient: &http.Client{Timeout: cfg.Geocoder.Timeout},
		Logger:     l.WithField("component", "geocoder"),
	})
	engine := pricing.NewEngine(geocoder,
		pricing.WithOrigin(cfg.Pricing.Origin),
		pricing.WithLogger(l.WithField("component", "pricing")),
	)

	return &app{cfg: cfg, log: l, engine: engine}, nil
}
