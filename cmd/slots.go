package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/foodsite/internal/reservation"
)

var slotsCmd = &cobra.Command{
	Use:   "slots <restaurant-id> [date...]",
	Short: "Look up reservation time slots on a running server",
	Long: `slots asks a running foodsite server for the time slots of each date.
With no dates on the command line, dates are read from stdin one per line,
the way a date picker emits them. Lookups that come within
reservation.debounce_window of the previous one are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		party, _ := cmd.Flags().GetInt("party")
		var in io.Reader = cmd.InOrStdin()
		if len(args) > 1 {
			in = strings.NewReader(strings.Join(args[1:], "\n"))
		}
		rpc := reservation.NewHTTPRPC(cfg.Reservation.RPCURL, cfg.Reservation.RPCTimeout)
		return lookupSlots(cmd, newReservationClient(rpc, args[0]), in, party)
	},
}

func init() {
	slotsCmd.Flags().Int("party", 2, "party size")
	slotsCmd.Flags().String("server", "", "base URL of the foodsite server")
	cobra.CheckErr(viper.BindPFlag("reservation.rpc_url", slotsCmd.Flags().Lookup("server")))
	rootCmd.AddCommand(slotsCmd)
}

func newReservationClient(rpc reservation.RPC, restaurantID string) *reservation.Client {
	return reservation.NewClient(rpc, restaurantID,
		reservation.WithDebounceWindow(cfg.Reservation.DebounceWindow),
		reservation.WithLogger(logger),
	)
}

// lookupSlots fetches slots for each date line as it is read.
func lookupSlots(cmd *cobra.Command, client *reservation.Client, dates io.Reader, party int) error {
	out := cmd.OutOrStdout()
	sc := bufio.NewScanner(dates)
	for sc.Scan() {
		date := strings.TrimSpace(sc.Text())
		if date == "" {
			continue
		}
		slots, err := client.FetchTimeSlots(cmd.Context(), date, party)
		if errors.Is(err, reservation.ErrDebounced) {
			fmt.Fprintf(out, "%s\tskipped\n", date)
			continue
		}
		if err != nil {
			return fmt.Errorf("time slots for %s: %w", date, err)
		}
		var open []string
		for _, s := range slots {
			if s.Available {
				open = append(open, s.Time)
			}
		}
		if len(open) == 0 {
			open = []string{"-"}
		}
		fmt.Fprintf(out, "%s\t%s\n", date, strings.Join(open, " "))
	}
	return sc.Err()
}
