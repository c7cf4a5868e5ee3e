package cmd

import (
	"encoding/json"

	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/dal"
	"github.com/spf13/cobra"
)

type quoteFlags struct {
	address    string
	tier       string
	floors     int
	extreme    bool
	transfer   bool
	oldRemoval bool
}

var quoteOpts quoteFlags

func init() {
	RootCmd.AddCommand(QuoteCmd)

	f := QuoteCmd.Flags()
	f.StringVar(&quoteOpts.address, "address", "", "destination address")
	f.StringVar(&quoteOpts.tier, "tier", "", "service tier: basic, furniture or furniture_assembly")
	f.IntVar(&quoteOpts.floors, "floors", 0, "number of floors to carry up")
	f.BoolVar(&quoteOpts.extreme, "extreme", false, "extreme case surcharge")
	f.BoolVar(&quoteOpts.transfer, "transfer", false, "transfer to another address")
	f.BoolVar(&quoteOpts.oldRemoval, "old-removal", false, "remove the old item")
	QuoteCmd.MarkFlagRequired("address")
	QuoteCmd.MarkFlagRequired("tier")
}

var QuoteCmd = &cobra.Command{
	Use:   QuoteCmdName,
	Short: QuoteCmdShort,
	Long:  QuoteCmdLong,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		result, err := a.engine.Quote(cmd.Context(), quoteOpts.request())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func (f quoteFlags) request() dal.QuoteRequest {
	return dal.QuoteRequest{
		DestinationAddress: f.address,
		Floors:             f.floors,
		Extreme:            f.extreme,
		Transfer:           f.transfer,
		RemoveOld:          f.oldRemoval,
		Tier:               dal.Tier(f.tier),
	}
}
