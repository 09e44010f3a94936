//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"

	"enhanced-seatmap/cmd/bootstrap"
	"enhanced-seatmap/cmd/bootstrap/components"
	"enhanced-seatmap/internal/pkg/config"
)

var (
	minioContainerOnce sync.Once
	minioTestContainer testcontainers.Container

	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
)

type ContainerInfo struct {
	Host string
	Port nat.Port
}

func (c ContainerInfo) Endpoint() string {
	return c.Host + ":" + c.Port.Port()
}

// ------------------------------------------------------------
// Per test process setup
// ------------------------------------------------------------
func setupE2EEnvironment(t *testing.T) (*minio.Client, *SWSStub, *gin.Engine, config.Config) {
	minioInfo := startContainers(t)
	sws := NewSWSStub(t)

	cfg := createTestConfig(minioInfo, sws.URL())
	router, cfg, app := buildE2EApp(cfg)
	require.NotNil(t, router, "router setup failed")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("Failed to stop fx app", "error", err.Error())
		}
	})

	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
		Region: cfg.Storage.Region,
	})
	require.NoError(t, err, "minio client setup failed")

	slog.Info("E2E environment ready",
		"minio_endpoint", minioInfo.Endpoint(),
		"bucket", cfg.Storage.Bucket,
		"sws_endpoint", sws.URL())

	return client, sws, router, cfg
}

// ------------------------------------------------------------
// Containers
// ------------------------------------------------------------
func startContainers(t *testing.T) ContainerInfo {
	gin.SetMode(gin.TestMode)
	startMinIOContainerOnce(t)

	minioInfo, err := getContainerHostPort(minioTestContainer, "9000/tcp")
	require.NoError(t, err, "failed to read MinIO container address")

	return minioInfo
}

// ------------------------------------------------------------
// fx application for E2E tests
// Returns router, config, and fx.App for proper lifecycle management
// ------------------------------------------------------------
func buildE2EApp(testConfig config.Config) (*gin.Engine, config.Config, *fx.App) {
	var router *gin.Engine
	var cfg config.Config

	testConfigModule := fx.Module("testconfig",
		fx.Provide(func() config.Config { return testConfig }),
	)

	app := fx.New(
		testConfigModule,
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		components.ClockModule,
		bootstrap.RedisModule,
		bootstrap.AuditModule,
		bootstrap.StorageModule,
		components.GatewayModule,
		components.UseCaseModule,
		components.HandlerModule,

		fx.Populate(&router, &cfg),

		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to start fx app: %v", err))
	}

	if router == nil {
		panic("fx app started without a router")
	}

	return router, cfg, app
}

// createTestConfig points storage at the container and the back-end at the
// stub. Each process gets its own bucket. Redis and AMQP stay disabled.
func createTestConfig(minioInfo ContainerInfo, swsURL string) config.Config {
	testConfig := config.NewTestConfig()
	testConfig.Storage.Endpoint = minioInfo.Endpoint()
	testConfig.Storage.AccessKey = minioUser
	testConfig.Storage.SecretKey = minioPassword
	testConfig.Storage.UseSSL = false
	testConfig.Storage.Bucket = "seatmap-e2e-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	testConfig.SWS.Endpoint = swsURL
	return testConfig
}

func startGenericContainer(req testcontainers.ContainerRequest, timeoutSec int) (testcontainers.Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
}

// ------------------------------------------------------------
// Start the MinIO container once per process
// ------------------------------------------------------------
func startMinIOContainerOnce(t *testing.T) {
	minioContainerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioPassword,
			},
			Tmpfs: map[string]string{
				"/data": "rw,size=256m",
			},
			Cmd: []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").
				WithPort("9000/tcp").
				WithStartupTimeout(60 * time.Second),
			Labels: map[string]string{"purpose": "e2e-tests"},
		}

		var err error
		minioTestContainer, err = startGenericContainer(req, 180)
		require.NoError(t, err, "failed to start MinIO container")

		t.Cleanup(func() {
			if minioTestContainer != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := minioTestContainer.Terminate(ctx); err != nil {
					slog.Warn("Failed to terminate MinIO container", "error", err.Error())
				}
			}
		})
	})
}

func getContainerHostPort(c testcontainers.Container, port string) (ContainerInfo, error) {
	ctx := context.Background()
	mappedPort, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return ContainerInfo{}, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return ContainerInfo{}, err
	}
	return ContainerInfo{Host: host, Port: mappedPort}, nil
}

// ------------------------------------------------------------
// Reservation back-end stub
// ------------------------------------------------------------

const soapEnvelope = `<soap-env:Envelope xmlns:soap-env="http://schemas.xmlsoap.org/soap/envelope/">` +
	`<soap-env:Header/><soap-env:Body>%s</soap-env:Body></soap-env:Envelope>`

const defaultSWSBody = `<Response><Success/></Response>`

// SWSStub answers SOAP calls by SOAPAction with canned bodies and records
// which actions were called.
type SWSStub struct {
	server *httptest.Server

	mu     sync.Mutex
	bodies map[string]string
	calls  []string
}

func NewSWSStub(t *testing.T) *SWSStub {
	t.Helper()
	s := &SWSStub{bodies: make(map[string]string)}
	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.server.Close)
	return s
}

func (s *SWSStub) URL() string {
	return s.server.URL
}

// Respond sets the body returned for action. A leading XML declaration is
// dropped so the document can sit inside the envelope.
func (s *SWSStub) Respond(action string, body []byte) {
	doc := string(body)
	if strings.HasPrefix(doc, "<?xml") {
		if i := strings.Index(doc, "?>"); i >= 0 {
			doc = doc[i+2:]
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[action] = doc
}

func (s *SWSStub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *SWSStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = make(map[string]string)
	s.calls = nil
}

func (s *SWSStub) serve(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)
	action := r.Header.Get("SOAPAction")

	s.mu.Lock()
	s.calls = append(s.calls, action)
	body, ok := s.bodies[action]
	s.mu.Unlock()
	if !ok {
		body = defaultSWSBody
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, soapEnvelope, body)
}

// ------------------------------------------------------------
// Shared setup for E2E suites
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Router  *gin.Engine
	Storage *minio.Client
	SWS     *SWSStub
	Config  config.Config
}

func (s *SharedSuite) SetupSharedSuite(t *testing.T) {
	storage, sws, router, cfg := setupE2EEnvironment(t)
	s.Storage = storage
	s.SWS = sws
	s.Router = router
	s.Config = cfg
	require.NotNil(t, s.Storage, "storage client setup failed")
	require.NotEmpty(t, s.Config, "config is empty")
	require.NotNil(t, s.Router, "router setup failed")
}

func (s *SharedSuite) SetupSuite() {
	s.SetupSharedSuite(s.T())
}

func (s *SharedSuite) SetupTest() {
	s.SWS.Reset()
}

func (s *SharedSuite) SetupSubTest() {
	s.SWS.Reset()
}

// ReadObject returns the stored bytes under key in the suite bucket.
func (s *SharedSuite) ReadObject(key string) []byte {
	s.T().Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	obj, err := s.Storage.GetObject(ctx, s.Config.Storage.Bucket, key, minio.GetObjectOptions{})
	require.NoError(s.T(), err)
	defer obj.Close()

	b, err := io.ReadAll(obj)
	require.NoError(s.T(), err)
	return b
}
