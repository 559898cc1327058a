// Command catalogctl queries the catalog gRPC API.
//
//	catalogctl [flags] get <id>
//	catalogctl [flags] list [--name soda] [--page 0] [--size 20]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	catalogv1 "github.com/grocerydesk/catalog/pkg/api/catalog/v1"
	"github.com/grocerydesk/catalog/pkg/client/grpc/interceptors"
	"github.com/grocerydesk/catalog/pkg/config"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var errUsage = errors.New("usage: catalogctl [flags] get <id> | list [--name N] [--page P] [--size S]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	client     config.GrpcClientConfig
	resilience config.ResilienceConfig
}

func parseOptions(args []string) (options, []string, error) {
	var opts options
	fs := pflag.NewFlagSet("catalogctl", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.StringVar(&opts.client.Addr, "addr", "localhost:9090", "catalog gRPC address")
	fs.DurationVar(&opts.client.Timeout, "timeout", 3*time.Second, "per call timeout")
	fs.UintVar(&opts.resilience.Retry.MaxAttempts, "retries", 3, "attempts for retryable failures")
	fs.DurationVar(&opts.resilience.Retry.InitialBackoff, "backoff", 100*time.Millisecond, "initial retry backoff")
	fs.Uint32Var(&opts.resilience.CircuitBreaker.ConsecutiveFailures, "breaker-failures", 5, "consecutive failures that open the breaker")
	fs.IntVar(&opts.resilience.CircuitBreaker.ErrorRatePercent, "breaker-rate", 50, "failure percentage that opens the breaker")
	fs.DurationVar(&opts.resilience.CircuitBreaker.OpenTimeout, "breaker-open", 10*time.Second, "how long the breaker stays open")
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	if err := opts.client.Validate(); err != nil {
		return opts, nil, err
	}
	if err := opts.resilience.Validate(); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, rest, err := parseOptions(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return errUsage
	}

	conn, err := grpc.NewClient(opts.client.Addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(
			interceptors.NewCircuitBreaker("catalog", opts.resilience.CircuitBreaker),
			interceptors.NewRetryInterceptor(opts.resilience.Retry),
			interceptors.UnaryClientTimeoutInterceptor(opts.client.Timeout),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create gRPC client: %w", err)
	}
	defer func() { _ = conn.Close() }()
	client := catalogv1.NewProductCatalogClient(conn)

	var reply interface{ ToStruct() *structpb.Struct }
	switch rest[0] {
	case "get":
		if len(rest) != 2 {
			return errUsage
		}
		reply, err = client.GetProduct(ctx, &catalogv1.GetProductRequest{ID: rest[1]})
	case "list":
		var req *catalogv1.ListProductsRequest
		req, err = listRequest(rest[1:])
		if err != nil {
			return err
		}
		reply, err = client.ListProducts(ctx, req)
	default:
		return errUsage
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", rest[0], err)
	}

	body, err := protojson.MarshalOptions{Multiline: true}.Marshal(reply.ToStruct())
	if err != nil {
		return fmt.Errorf("failed to render reply: %w", err)
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}

func listRequest(args []string) (*catalogv1.ListProductsRequest, error) {
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	name := fs.String("name", "", "case-insensitive name filter")
	page := fs.Int32("page", 0, "zero-based page number")
	size := fs.Int32("size", 20, "page size")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &catalogv1.ListProductsRequest{Name: *name, Page: page, Size: size}, nil
}
