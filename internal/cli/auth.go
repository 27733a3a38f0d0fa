package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/maheshrc27/autoposter/pkg/utils"
	"github.com/spf13/cobra"
)

const encryptedPrefix = "enc:"

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token signed with SECRET_KEY",
	RunE:  runToken,
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a random 32 character secret key",
	RunE:  runKeygen,
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [value]",
	Short: "Encrypt a secret for use as an enc: prefixed environment value",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncrypt,
}

func init() {
	tokenCmd.Flags().String("operator", "operator", "Name recorded in the token")
	tokenCmd.Flags().Duration("ttl", 30*24*time.Hour, "Token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	if cfg.SecretKey == "" {
		return errors.New("SECRET_KEY is not set")
	}

	operator, _ := cmd.Flags().GetString("operator")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	token, err := utils.GenerateToken(cfg.SecretKey, operator, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func runKeygen(cmd *cobra.Command, args []string) error {
	// 24 random bytes encode to 32 base64 characters, an AES-256 key
	key, err := utils.GenerateRandomKey(24)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), key)
	return nil
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	if cfg.SecretKey == "" {
		return errors.New("SECRET_KEY is not set")
	}

	sealed, err := utils.Encrypt([]byte(args[0]), []byte(cfg.SecretKey))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), encryptedPrefix+sealed)
	return nil
}
