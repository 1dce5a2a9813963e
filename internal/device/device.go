// Package device implements the agent↔device collaborator (spec.md §1,
// §6 "Wire protocol (agent↔device)"): a mutual-TLS gRPC channel to a
// telemetry-capable network device, an authentication login, and a
// telemetrySubscribe stream whose emissions are converted into
// openconfig.OpenConfigData for the transformer. Grounded on
// original_source jtimon-rs/src/grpc/grpc.rs.
package device

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"os"

	"github.com/neox5/cnmetrics/internal/openconfig"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"
)

// TLSConfig names the mutual-TLS material used to dial the device
// (spec.md §6).
type TLSConfig struct {
	CertFile   string
	KeyFile    string
	CAFile     string
	ServerName string
}

// Path is one subscription path with its sample frequency, in
// milliseconds, matching the telemetry-agent config's "paths" entries.
type Path struct {
	Path string
	Freq uint32
}

// Config describes one device to connect to.
type Config struct {
	Address   string
	Username  string
	Password  string
	TLS       TLSConfig
	Paths     []Path
	Namespace string
}

// Device owns the dialed connection and subscription state for one
// configured telemetry device.
type Device struct {
	cfg  Config
	conn *grpc.ClientConn
}

// Dial builds the mutual-TLS channel, performs the authentication login
// carrying {username, password, group_id="cnm", client_id="cnm"}, and
// returns a Device ready to Subscribe. TLS material that cannot be read is
// a fatal startup error (spec.md §7).
func Dial(ctx context.Context, cfg Config) (*Device, error) {
	creds, err := loadTLSCredentials(cfg.TLS)
	if err != nil {
		return nil, fmt.Errorf("load tls material: %w", err)
	}

	conn, err := grpc.NewClient(cfg.Address, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("dial device %s: %w", cfg.Address, err)
	}

	loginCtx := metadata.AppendToOutgoingContext(ctx, "client-id", "cnm")
	req := &loginRequest{
		Username: cfg.Username,
		Password: cfg.Password,
		GroupID:  "cnm",
		ClientID: "cnm",
	}
	if _, err := authLogin(loginCtx, conn, req); err != nil {
		conn.Close()
		return nil, fmt.Errorf("login to device %s: %w", cfg.Address, err)
	}

	slog.Info("device login succeeded", "address", cfg.Address, "username", cfg.Username)
	return &Device{cfg: cfg, conn: conn}, nil
}

func loadTLSCredentials(cfg TLSConfig) (credentials.TransportCredentials, error) {
	caPEM, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("read ca file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("parse ca file %s: no certificates found", cfg.CAFile)
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load client keypair: %w", err)
	}

	return credentials.NewTLS(&tls.Config{
		ServerName:   cfg.ServerName,
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
	}), nil
}

// Close releases the underlying connection.
func (d *Device) Close() error {
	return d.conn.Close()
}

// Subscribe opens the telemetrySubscribe stream and forwards every
// emission, converted to openconfig.OpenConfigData, onto out until ctx is
// cancelled or the stream ends. The caller owns out's lifetime; Subscribe
// never closes it.
func (d *Device) Subscribe(ctx context.Context, out chan<- openconfig.OpenConfigData) error {
	pathList := make([]subscriptionPath, len(d.cfg.Paths))
	for i, p := range d.cfg.Paths {
		pathList[i] = subscriptionPath{Path: p.Path, SampleFrequency: p.Freq}
	}

	req := &subscriptionRequest{
		AdditionalConfig: subscriptionAdditionalConfig{Mode: "LongLived", NeedEOS: true},
		PathList:         pathList,
	}

	callCtx := metadata.AppendToOutgoingContext(ctx,
		"client-id", "cnm",
		"username", d.cfg.Username,
		"password", d.cfg.Password,
	)

	stream, err := telemetrySubscribe(callCtx, d.conn, req)
	if err != nil {
		return fmt.Errorf("telemetrySubscribe to %s: %w", d.cfg.Address, err)
	}

	for {
		raw, err := stream.Recv()
		if err != nil {
			return fmt.Errorf("device stream %s: %w", d.cfg.Address, err)
		}

		msg := convert(raw)
		select {
		case out <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func convert(raw *rawOpenConfigData) openconfig.OpenConfigData {
	kvs := make([]openconfig.KV, len(raw.KV))
	for i, kv := range raw.KV {
		kvs[i] = convertKV(kv)
	}
	return openconfig.OpenConfigData{
		Path:      raw.Path,
		Timestamp: raw.Timestamp,
		SystemID:  raw.SystemID,
		KV:        kvs,
	}
}

func convertKV(kv rawKV) openconfig.KV {
	out := openconfig.KV{Key: kv.Key}
	switch {
	case kv.StrValue != nil:
		out.String = *kv.StrValue
	case kv.DoubleValue != nil:
		out.Value = openconfig.Value{Kind: openconfig.KindDouble, Double: *kv.DoubleValue}
	case kv.FloatValue != nil:
		out.Value = openconfig.Value{Kind: openconfig.KindFloat, Float: *kv.FloatValue}
	case kv.UintValue != nil:
		out.Value = openconfig.Value{Kind: openconfig.KindUint, Uint: *kv.UintValue}
	case kv.IntValue != nil:
		out.Value = openconfig.Value{Kind: openconfig.KindInt, Int: *kv.IntValue}
	}
	return out
}
