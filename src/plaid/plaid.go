package plaid

import (
	"log"

	"github.com/plaid/plaid-go/v41/plaid"
)

var environments = map[string]plaid.Environment{
	"sandbox":    plaid.Sandbox,
	"production": plaid.Production,
}

// NewClient builds the Plaid API client for the configured environment.
func NewClient(clientID, secret, env string) *plaid.APIClient {
	environment, ok := environments[env]
	if !ok {
		log.Fatalf("unknown plaid environment %q (want sandbox or production)", env)
	}

	cfg := plaid.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	cfg.AddDefaultHeader("PLAID-SECRET", secret)
	cfg.UseEnvironment(environment)
	return plaid.NewAPIClient(cfg)
}
