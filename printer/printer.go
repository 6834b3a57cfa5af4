// Package printer handles human facing output of the CLI commands
package printer

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/searchsync/options"
	"github.com/batchcorp/searchsync/types"
)

type Printer struct {
	PrintFunc func(format string, a ...interface{}) (n int, err error)
}

func New() *Printer {
	return &Printer{
		PrintFunc: fmt.Printf,
	}
}

// Error is a convenience function for printing errors.
func (p *Printer) Error(str string) {
	p.PrintFunc("%s: %s\n", aurora.Red(">> ERROR"), str)
}

// Print is a convenience function for printing regular output.
func (p *Printer) Print(str string) {
	p.PrintFunc("%s\n", str)
}

// PrintSummary renders batch metrics as a two column table
func (p *Printer) PrintSummary(sm *types.SyncMetrics) {
	if sm == nil {
		return
	}

	status := aurora.Green("OK").String()
	if sm.FailedRecords > 0 {
		status = aurora.Red("FAILURES").String()
	}

	properties := [][]string{
		{"Batch ID", sm.BatchID},
		{"Status", status},
		{"Batch Size", fmt.Sprint(sm.BatchSize)},
		{"Processed Records", fmt.Sprint(sm.ProcessedRecords)},
		{"Failed Records", fmt.Sprint(sm.FailedRecords)},
		{"Processing Time", fmt.Sprintf("%dms", sm.ProcessingTimeMs)},
	}

	tableString := &strings.Builder{}

	table := tablewriter.NewWriter(tableString)
	table.AppendBulk(properties)
	table.SetColMinWidth(0, 20)
	table.SetColMinWidth(1, 40)
	// First column align left, second column align right
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()

	p.Print(tableString.String())
}

// PrintRelayOptions logs the settings a relay was started with. Secrets are
// not printed.
func PrintRelayOptions(cmd string, opts *options.CLIOptions) {
	if opts == nil {
		return
	}

	logrus.Info("----------------------------------------------------------------")
	logrus.Info("> Relay Settings")
	logrus.Info("----------------------------------------------------------------")
	logrus.Info("")
	logrus.Infof("- %-24s%-6s", "Command", cmd)
	logrus.Infof("- %-24s%-6s", "SearchAddresses", strings.Join(opts.SearchAddresses, ", "))
	logrus.Infof("- %-24s%-6v", "SearchSignAWS", opts.SearchSignAWS)
	logrus.Infof("- %-24s%-6d", "NumWorkers", opts.Relay.NumWorkers)
	logrus.Infof("- %-24s%-6d", "BatchSize", opts.Relay.BatchSize)
	logrus.Infof("- %-24s%-6v", "FlushInterval", opts.Relay.FlushInterval)
	logrus.Infof("- %-24s%-6s", "ListenAddress", opts.Relay.ListenAddress)
	logrus.Infof("- %-24s%-6v", "StatsReportInterval", opts.Relay.StatsReportInterval)
	logrus.Infof("- %-24s%-6v", "MetricsCloudWatch", opts.MetricsCloudWatch)
	logrus.Infof("- %-24s%-6s", "DLQQueueName", opts.DLQQueueName)
	logrus.Info("")

	switch cmd {
	case "relay dynamodb-streams":
		printDynamoDBStreamsOptions(&opts.Relay.DynamoDBStreams)
	case "relay kafka":
		printKafkaOptions(&opts.Relay.Kafka)
	}
}

func printDynamoDBStreamsOptions(opts *options.DynamoDBStreamsOptions) {
	logrus.Info("----------------------------------------------------------------")
	logrus.Info("> DynamoDB Streams Settings")
	logrus.Info("----------------------------------------------------------------")
	logrus.Info("")
	logrus.Infof("- %-24s%-6v", "StreamARN", opts.StreamARN)
	logrus.Infof("- %-24s%-6v", "Shard", opts.Shard)
	logrus.Infof("- %-24s%-6v", "StartPosition", opts.StartPosition)
	logrus.Infof("- %-24s%-6v", "ReadBatchSize", opts.ReadBatchSize)
	logrus.Infof("- %-24s%-6v", "PollInterval", opts.PollInterval)
	logrus.Infof("- %-24s%-6v", "ShardRefreshInterval", opts.ShardRefreshInterval)
	logrus.Infof("- %-24s%-6v", "RedisAddress", opts.RedisAddress)
	logrus.Infof("- %-24s%-6v", "CheckpointTTL", opts.CheckpointTTL)
	logrus.Info("")
}

func printKafkaOptions(opts *options.KafkaOptions) {
	logrus.Info("----------------------------------------------------------------")
	logrus.Info("> Kafka Settings")
	logrus.Info("----------------------------------------------------------------")
	logrus.Info("")
	logrus.Infof("- %-24s%-6v", "Brokers", strings.Join(opts.Brokers, ", "))
	logrus.Infof("- %-24s%-6v", "Topics", strings.Join(opts.Topics, ", "))
	logrus.Infof("- %-24s%-6v", "consumer Group", opts.GroupID)
	logrus.Infof("- %-24s%-6v", "CommitInterval", opts.CommitInterval)
	logrus.Infof("- %-24s%-6v", "MaxWait", opts.MaxWait)
	logrus.Infof("- %-24s%-6v", "MinBytes", opts.MinBytes)
	logrus.Infof("- %-24s%-6v", "MaxBytes", opts.MaxBytes)
	logrus.Info("")
}
