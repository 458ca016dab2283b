package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	rocksq "github.com/insight-platform/RocksQ"
	logpkg "github.com/insight-platform/RocksQ/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	level := os.Getenv("ROCKSQ_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(logpkg.WithLevel(parsed))

	rootCmd := &cobra.Command{
		Use:   "rocksq",
		Short: "RocksQ queue CLI",
		Long:  "Inspect and exercise on-disk RocksQ queues. Each command opens the store, runs one operation, and exits.",
	}
	rootCmd.PersistentFlags().String("path", "", "Queue directory (required)")
	rootCmd.PersistentFlags().String("fsync", "always", "Fsync mode: always|interval|never")
	rootCmd.PersistentFlags().Int("ttl-sec", 60, "Record TTL in seconds (labeled queues)")

	// stat
	statCmd := &cobra.Command{
		Use:   "stat",
		Short: "Print queue length, payload bytes, and disk usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := openBounded(cmd, 0, logger)
			if err != nil {
				return err
			}
			defer q.Close()
			ctx := cmd.Context()
			n, err := awaitUint64(ctx, q.Len)
			if err != nil {
				return err
			}
			payload, err := awaitUint64(ctx, q.PayloadSize)
			if err != nil {
				return err
			}
			disk, err := awaitUint64(ctx, q.DiskSize)
			if err != nil {
				return err
			}
			fmt.Printf("len=%d payload_bytes=%d disk_bytes=%d\n", n, payload, disk)
			return nil
		},
	}
	rootCmd.AddCommand(statCmd)

	// push
	pushCmd := &cobra.Command{
		Use:   "push [payload...]",
		Short: "Push payloads onto a bounded queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxElements, _ := cmd.Flags().GetUint64("max-elements")
			q, err := openBounded(cmd, maxElements, logger)
			if err != nil {
				return err
			}
			defer q.Close()
			payloads := make([][]byte, 0, len(args))
			for _, a := range args {
				payloads = append(payloads, []byte(a))
			}
			resp, err := q.Push(cmd.Context(), payloads)
			if err != nil {
				return err
			}
			res, err := resp.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("pushed %d payloads (%d bytes)\n", res.Accepted, res.Bytes)
			return nil
		},
	}
	pushCmd.Flags().Uint64("max-elements", 0, "Capacity ceiling (0 = unbounded)")
	rootCmd.AddCommand(pushCmd)

	// pop
	popCmd := &cobra.Command{
		Use:   "pop",
		Short: "Pop payloads from the head of a bounded queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			max, _ := cmd.Flags().GetInt("max")
			q, err := openBounded(cmd, 0, logger)
			if err != nil {
				return err
			}
			defer q.Close()
			resp, err := q.Pop(cmd.Context(), max)
			if err != nil {
				return err
			}
			res, err := resp.Get(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range res.Payloads {
				fmt.Printf("%s\n", p)
			}
			fmt.Printf("popped %d payloads\n", len(res.Payloads))
			return nil
		},
	}
	popCmd.Flags().Int("max", 1, "Maximum payloads to pop")
	rootCmd.AddCommand(popCmd)

	// add
	addCmd := &cobra.Command{
		Use:   "add [payload...]",
		Short: "Add payloads to a labeled queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := openLabeled(cmd, logger)
			if err != nil {
				return err
			}
			defer q.Close()
			payloads := make([][]byte, 0, len(args))
			for _, a := range args {
				payloads = append(payloads, []byte(a))
			}
			resp, err := q.Add(cmd.Context(), payloads)
			if err != nil {
				return err
			}
			res, err := resp.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("added %d payloads (%d bytes), removed_label=%v\n", res.Accepted, res.Bytes, res.RemovedLabel)
			return nil
		},
	}
	rootCmd.AddCommand(addCmd)

	// next
	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Read the next payloads for a consumer label",
		RunE: func(cmd *cobra.Command, args []string) error {
			label, _ := cmd.Flags().GetString("label")
			if label == "" {
				return fmt.Errorf("--label is required")
			}
			max, _ := cmd.Flags().GetInt("max")
			startFlag, _ := cmd.Flags().GetString("start")
			start := rocksq.Oldest
			if startFlag == "newest" {
				start = rocksq.Newest
			}
			q, err := openLabeled(cmd, logger)
			if err != nil {
				return err
			}
			defer q.Close()
			resp, err := q.Next(cmd.Context(), label, start, max)
			if err != nil {
				return err
			}
			res, err := resp.Get(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range res.Payloads {
				fmt.Printf("%s\n", p)
			}
			fmt.Printf("read %d payloads, labels=%v, removed_label=%v\n", len(res.Payloads), res.Labels, res.RemovedLabel)
			return nil
		},
	}
	nextCmd.Flags().String("label", "", "Consumer label")
	nextCmd.Flags().String("start", "oldest", "Start position for new labels: oldest|newest")
	nextCmd.Flags().Int("max", 1, "Maximum payloads to read")
	rootCmd.AddCommand(nextCmd)

	// labels
	labelsCmd := &cobra.Command{
		Use:   "labels",
		Short: "List consumer labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := openLabeled(cmd, logger)
			if err != nil {
				return err
			}
			defer q.Close()
			resp, err := q.Labels(cmd.Context())
			if err != nil {
				return err
			}
			labels, err := resp.Get(cmd.Context())
			if err != nil {
				return err
			}
			for _, l := range labels {
				fmt.Println(l)
			}
			return nil
		},
	}
	rootCmd.AddCommand(labelsCmd)

	// remove-label
	removeLabelCmd := &cobra.Command{
		Use:   "remove-label",
		Short: "Remove a consumer label and its cursor",
		RunE: func(cmd *cobra.Command, args []string) error {
			label, _ := cmd.Flags().GetString("label")
			if label == "" {
				return fmt.Errorf("--label is required")
			}
			q, err := openLabeled(cmd, logger)
			if err != nil {
				return err
			}
			defer q.Close()
			resp, err := q.RemoveLabel(cmd.Context(), label)
			if err != nil {
				return err
			}
			existed, err := resp.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("removed=%v\n", existed)
			return nil
		},
	}
	removeLabelCmd.Flags().String("label", "", "Consumer label")
	rootCmd.AddCommand(removeLabelCmd)

	// destroy
	destroyCmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete a queue directory that is not currently open",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("path")
			if err := rocksq.Destroy(path); err != nil {
				return err
			}
			fmt.Println("destroyed", path)
			return nil
		},
	}
	rootCmd.AddCommand(destroyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func commonOptions(cmd *cobra.Command, logger logpkg.Logger) ([]rocksq.Option, error) {
	fsync, _ := cmd.Flags().GetString("fsync")
	opts := []rocksq.Option{rocksq.WithLogger(logger)}
	switch fsync {
	case "always":
		opts = append(opts, rocksq.WithFsync(rocksq.FsyncAlways))
	case "interval":
		opts = append(opts, rocksq.WithFsync(rocksq.FsyncInterval))
	case "never":
		opts = append(opts, rocksq.WithFsync(rocksq.FsyncNever))
	default:
		return nil, fmt.Errorf("invalid --fsync; use always|interval|never")
	}
	return opts, nil
}

// openBounded opens the queue with the given ceiling; 0 means the ceiling is
// irrelevant to the command (stat, pop) and the maximum is used.
func openBounded(cmd *cobra.Command, maxElements uint64, logger logpkg.Logger) (*rocksq.BoundedQueue, error) {
	path, _ := cmd.Flags().GetString("path")
	opts, err := commonOptions(cmd, logger)
	if err != nil {
		return nil, err
	}
	if maxElements == 0 {
		maxElements = math.MaxUint64
	}
	return rocksq.OpenBounded(path, maxElements, 16, opts...)
}

func openLabeled(cmd *cobra.Command, logger logpkg.Logger) (*rocksq.LabeledQueue, error) {
	path, _ := cmd.Flags().GetString("path")
	ttlSec, _ := cmd.Flags().GetInt("ttl-sec")
	opts, err := commonOptions(cmd, logger)
	if err != nil {
		return nil, err
	}
	return rocksq.OpenLabeled(path, time.Duration(ttlSec)*time.Second, 16, opts...)
}

func awaitUint64(ctx context.Context, op func(context.Context) (*rocksq.Response[uint64], error)) (uint64, error) {
	resp, err := op(ctx)
	if err != nil {
		return 0, err
	}
	return resp.Get(ctx)
}
