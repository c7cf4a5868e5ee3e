package cmd

const (
	RootCmdName  = "shipcalc"
	RootCmdShort = "Shipping price calculator"
	RootCmdLong  = `shipcalc quotes moving and delivery jobs from a fixed depot in Budapest.
The destination is geocoded, the road distance estimated and priced by service
tier, then floor, extreme case, transfer and old item removal surcharges are added.`

	ServeCmdName  = "serve"
	ServeCmdShort = "Serve the quote API over HTTP"
	ServeCmdLong  = "Starts an HTTP server answering POST /api/calculate-shipping until interrupted."

	QuoteCmdName  = "quote"
	QuoteCmdShort = "Print a single quote as JSON"
	QuoteCmdLong  = "Geocodes the given address and prints the price breakdown to stdout."
)
