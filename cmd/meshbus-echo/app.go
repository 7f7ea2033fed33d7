package main

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"meshbus/pkg/codec"
	"meshbus/pkg/config"
	"meshbus/pkg/observability"
	"meshbus/pkg/trace"
	"meshbus/pkg/transport"
	"meshbus/pkg/transports"
)

// run exercises one full pub/sub and one request/response exchange over the
// configured transport, to demonstrate the port contract end to end.
func run(opts Options) int {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	zap.L().Info("meshbus-echo started", zap.String("app", cfg.AppName), zap.Strings("transports", cfg.Transports))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tr, err := transports.Construct(cfg.Transports...)
	if err != nil {
		zap.L().Error("transport construction failed", zap.Error(err))
		return 1
	}
	defer func() { _ = tr.Close(context.Background()) }()

	if cfg.Trace.Enable {
		if err := attachTrace(tr, cfg.Trace); err != nil {
			zap.L().Warn("trace disabled", zap.Error(err))
		}
	}

	if err := echoMessage(ctx, tr, opts); err != nil {
		zap.L().Error("pub/sub leg failed", zap.Error(err))
		return 1
	}
	if err := echoService(ctx, tr, opts); err != nil {
		zap.L().Error("request/response leg failed", zap.Error(err))
		return 1
	}
	zap.L().Info("done")
	return 0
}

func attachTrace(tr transport.Transport, tc config.TraceConfig) error {
	capt, ok := tr.(transport.Capturer)
	if !ok {
		zap.L().Warn("transport does not support capture")
		return nil
	}
	var w io.Writer
	switch strings.ToLower(tc.Output) {
	case "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(tc.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		w = f
	}
	reg := codec.NewRegistry()
	if strings.ToLower(tc.Format) == "cbor" {
		c, err := codec.CBOR()
		if err != nil {
			return err
		}
		reg.Register(c)
	}
	c := reg.Get(strings.ToLower(tc.Format))
	if c == nil {
		c = reg.Get("json")
	}
	capt.BeginCapture(trace.NewSink(w, c).Handler())
	return nil
}

func echoMessage(ctx context.Context, tr transport.Transport, opts Options) error {
	ds, err := transport.NewMessageDataSpecifier(opts.SubjectID)
	if err != nil {
		return err
	}
	sub, err := tr.NewSubscriber(ctx, ds, transport.MessageCapacity{MaxPayload: 1024})
	if err != nil {
		return err
	}
	defer func() { _ = sub.Close(context.Background()) }()
	pub, err := tr.NewPublisher(ctx, ds, transport.MessageCapacity{MaxPayload: 1024})
	if err != nil {
		return err
	}
	defer func() { _ = pub.Close(context.Background()) }()

	err = pub.Publish(ctx, transport.PublisherTransfer{
		Priority:   transport.PriorityNominal,
		TransferID: 1,
		Payload:    transport.FragmentedPayload{[]byte(opts.Message)},
		Loopback:   true,
	})
	if err != nil {
		return err
	}
	st, err := sub.Receive(ctx)
	if err != nil {
		return err
	}
	zap.L().Info("message received",
		zap.String("subject", ds.String()),
		zap.ByteString("payload", st.Payload.Join()),
		zap.Bool("loopback", st.Loopback))
	return nil
}

func echoService(ctx context.Context, tr transport.Transport, opts Options) error {
	serverSpec, err := transport.NewServiceDataSpecifier(opts.ServiceID, transport.RoleServer)
	if err != nil {
		return err
	}
	clientSpec, err := transport.NewServiceDataSpecifier(opts.ServiceID, transport.RoleClient)
	if err != nil {
		return err
	}
	srv, err := tr.NewServer(ctx, serverSpec, transport.ServiceCapacity{MaxRequest: 1024, MaxResponse: 1024})
	if err != nil {
		return err
	}
	defer func() { _ = srv.Close(context.Background()) }()
	cli, err := tr.NewClient(ctx, clientSpec, tr.LocalNodeID(), transport.ServiceCapacity{MaxRequest: 1024, MaxResponse: 1024})
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close(context.Background()) }()

	// Echo server: answer every request with its own payload.
	go func() {
		for {
			req, err := srv.Listen(ctx)
			if err != nil {
				return
			}
			resp := transport.ServerResponse{Metadata: req.Metadata, Payload: req.Payload}
			if err := srv.Respond(ctx, resp); err != nil {
				zap.L().Warn("respond failed", zap.Error(err))
			}
		}
	}()

	resp, err := cli.TryRequest(ctx, transport.ClientRequest{
		Priority:   transport.PriorityHigh,
		TransferID: 1,
		Payload:    transport.FragmentedPayload{[]byte(opts.Message)},
	}, 2*time.Second)
	if err != nil {
		return err
	}
	if resp == nil {
		zap.L().Warn("no response within timeout", zap.String("service", clientSpec.String()))
		return nil
	}
	zap.L().Info("response received",
		zap.String("service", clientSpec.String()),
		zap.ByteString("payload", resp.Payload.Join()))
	return nil
}
