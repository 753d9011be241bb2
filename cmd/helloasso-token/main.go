// Command helloasso-token verifies HelloAsso API credentials by performing
// the client-credentials grant and printing what the platform issued.
//
// Credentials come from flags or from the environment (HELLOASSO_CLIENT_ID,
// HELLOASSO_CLIENT_SECRET). The client secret is read, sent to the token
// endpoint and never printed.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	helloasso "github.com/Mattherix/hello-asso"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "helloasso-token",
	Short:         "Verify HelloAsso API credentials and inspect the issued access token",
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().String("client-id", "", "HelloAsso API client identifier")
	rootCmd.Flags().String("client-secret", "", "HelloAsso API client secret")
	rootCmd.Flags().String("token-url", helloasso.DefaultTokenURL, "OAuth2 token endpoint")
	rootCmd.Flags().Duration("timeout", 30*time.Second, "token request timeout")
	rootCmd.Flags().Bool("refresh", false, "refresh the token once after fetching it")
	rootCmd.Flags().Bool("json", false, "print the result as JSON on stdout")

	_ = viper.BindPFlags(rootCmd.Flags())
	viper.SetEnvPrefix("helloasso")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// zerologAdapter forwards client lifecycle events to the global zerolog logger.
type zerologAdapter struct{}

func (zerologAdapter) Printf(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}

// result is the JSON shape printed with --json. The refresh token and the
// client secret are deliberately absent.
type result struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenID     string    `json:"token_id,omitempty"`
	Issuer      string    `json:"issuer,omitempty"`
}

func run(cmd *cobra.Command, args []string) error {
	clientID := viper.GetString("client-id")
	clientSecret := viper.GetString("client-secret")
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("client id and client secret are required (flags or HELLOASSO_CLIENT_ID / HELLOASSO_CLIENT_SECRET)")
	}

	client, err := helloasso.New(clientID, clientSecret).
		WithTokenURL(viper.GetString("token-url")).
		WithTimeout(viper.GetDuration("timeout")).
		WithLogger(zerologAdapter{}).
		Build(cmd.Context())
	if err != nil {
		return err
	}

	if viper.GetBool("refresh") {
		if err := client.Refresh(cmd.Context()); err != nil {
			return err
		}
		log.Info().Time("expires_at", client.ExpiresAt()).Msg("token refreshed")
	}

	out := result{
		AccessToken: client.AccessToken(),
		TokenType:   client.TokenType(),
		ExpiresAt:   client.ExpiresAt(),
	}
	if info, err := client.TokenInfo(); err == nil {
		out.TokenID = info.ID
		out.Issuer = info.Issuer
	} else {
		log.Warn().Err(err).Msg("access token is not an inspectable JWT")
	}

	if viper.GetBool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	log.Info().
		Str("client_id", client.ClientID()).
		Str("token_type", out.TokenType).
		Str("token_id", out.TokenID).
		Time("expires_at", out.ExpiresAt).
		Msg("credentials accepted")
	fmt.Println(out.AccessToken)
	return nil
}

// describeFailure logs the classified cause of a failed run. Cobra's own
// error printing is silenced, so every failure path must produce at least one
// error line here.
func describeFailure(err error) {
	var authErr *helloasso.AuthenticationError
	var statusErr *helloasso.StatusError
	var reqErr *helloasso.RequestError

	switch {
	case errors.As(err, &authErr):
		// The endpoint blames the client_id even when only the secret is
		// wrong, so point at both.
		log.Error().
			Str("code", authErr.Code).
			Str("description", authErr.Description).
			Msg("credentials rejected, check both client id and client secret")
	case errors.As(err, &statusErr):
		log.Error().
			Int("status", statusErr.StatusCode).
			Msg("token endpoint answered an undocumented status")
	case errors.As(err, &reqErr):
		log.Error().Err(reqErr.Err).Msg("token endpoint unreachable")
	default:
		log.Error().Err(err).Msg("helloasso-token failed")
	}
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if viper.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		describeFailure(err)
		os.Exit(1)
	}
}
