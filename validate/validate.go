// Package validate contains validation of the combined CLI options that the
// individual constructors cannot check on their own.
package validate

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/batchcorp/searchsync/options"
)

var (
	ErrMissingCLIOptions    = errors.New("cli options cannot be nil")
	ErrMissingSearchAddress = errors.New("at least one '--search-addresses' is required")
	ErrMissingNamespace     = errors.New("'--metrics-namespace' cannot be empty when '--metrics-cloud-watch' is set")
	ErrSignWithoutRegion    = errors.New("'--aws-region' is required when '--search-sign-aws' is set")

	// Relay

	ErrInvalidNumWorkers    = errors.New("'--num-workers' cannot be negative")
	ErrInvalidBatchSize     = errors.New("'--batch-size' cannot be negative")
	ErrInvalidStartPosition = errors.New("'--start-position' must be LATEST or TRIM_HORIZON")
	ErrInvalidStreamARN     = errors.New("'--stream-arn' must be a DynamoDB stream ARN")
	ErrInvalidSASLType      = errors.New("'--sasl-type' must be 'plain' or 'scram'")

	// Apply

	ErrMissingFile = errors.New("'--file' cannot be empty")
)

// CLIOptions validates the options shared by every command
func CLIOptions(cliOpts *options.CLIOptions) error {
	if cliOpts == nil {
		return ErrMissingCLIOptions
	}

	if len(cliOpts.SearchAddresses) == 0 {
		return ErrMissingSearchAddress
	}

	for _, addr := range cliOpts.SearchAddresses {
		if strings.TrimSpace(addr) == "" {
			return ErrMissingSearchAddress
		}
	}

	if cliOpts.MetricsCloudWatch && cliOpts.MetricsNamespace == "" {
		return ErrMissingNamespace
	}

	if cliOpts.SearchSignAWS && cliOpts.AWSRegion == "" {
		return ErrSignWithoutRegion
	}

	return nil
}

func RelayOptions(relayOpts *options.RelayOptions) error {
	if relayOpts == nil {
		return errors.New("relay options cannot be nil")
	}

	if relayOpts.NumWorkers < 0 {
		return ErrInvalidNumWorkers
	}

	if relayOpts.BatchSize < 0 {
		return ErrInvalidBatchSize
	}

	return nil
}

func DynamoDBStreamsOptions(streamOpts *options.DynamoDBStreamsOptions) error {
	if streamOpts == nil {
		return errors.New("dynamodb streams options cannot be nil")
	}

	if !strings.HasPrefix(streamOpts.StreamARN, "arn:") || !strings.Contains(streamOpts.StreamARN, "/stream/") {
		return ErrInvalidStreamARN
	}

	switch streamOpts.StartPosition {
	case "LATEST", "TRIM_HORIZON":
	default:
		return ErrInvalidStartPosition
	}

	return nil
}

func KafkaOptions(kafkaOpts *options.KafkaOptions) error {
	if kafkaOpts == nil {
		return errors.New("kafka options cannot be nil")
	}

	switch kafkaOpts.SASLType {
	case "", "plain", "scram":
	default:
		return ErrInvalidSASLType
	}

	return nil
}

func ApplyOptions(applyOpts *options.ApplyOptions) error {
	if applyOpts == nil {
		return errors.New("apply options cannot be nil")
	}

	if applyOpts.File == "" {
		return ErrMissingFile
	}

	return nil
}
