package processor

import (
	"fmt"
	"io"

	"github.com/sheikh-saqib/payments-replay-engine/internal/models"
)

// WriteReport renders the final account state: a header line followed by one
// line per account, amounts in the canonical 4-decimal form.
func WriteReport(w io.Writer, accounts []models.Account) error {
	if _, err := fmt.Fprintln(w, "client,available,held,total,locked"); err != nil {
		return err
	}
	for _, account := range accounts {
		_, err := fmt.Fprintf(w, "%d,%s,%s,%s,%t\n",
			account.Client,
			account.Available,
			account.Held,
			account.Total,
			account.Locked,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
