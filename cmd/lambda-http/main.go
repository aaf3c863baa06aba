package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/goccy/go-json"

	"learnpath-backend/internal/bootstrap"
	"learnpath-backend/internal/shared/config"
	"learnpath-backend/internal/shared/server/respond"
	"learnpath-backend/internal/shared/telemetry"
)

// httpFunction serves the recommendations API from one Lambda execution
// environment. A failed bootstrap is retried on the next invocation.
type httpFunction struct {
	build func(config.Config) (*bootstrap.App, error)

	mu    sync.Mutex
	app   *bootstrap.App
	proxy *ginadapter.GinLambdaV2
}

func (f *httpFunction) router() (*ginadapter.GinLambdaV2, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.proxy != nil {
		return f.proxy, nil
	}
	app, err := f.build(config.Load())
	if err != nil {
		return nil, err
	}
	f.app = app
	f.proxy = ginadapter.NewV2(app.Router)
	return f.proxy, nil
}

func (f *httpFunction) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	defer telemetry.Sync()

	proxy, err := f.router()
	if err != nil {
		telemetry.Error("lambda_http.bootstrap_failed", map[string]any{
			"route":          req.RouteKey,
			"aws_request_id": req.RequestContext.RequestID,
			"error":          err,
		})
		return bootstrapFailure(), nil
	}
	return proxy.ProxyWithContext(ctx, req)
}

// close runs when Lambda sends SIGTERM before recycling the environment.
func (f *httpFunction) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.app != nil {
		f.app.Close()
		f.app = nil
		f.proxy = nil
	}
	telemetry.Info("lambda_http.shutdown", nil)
	telemetry.Sync()
}

func bootstrapFailure() events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: respond.ErrorBody{
		Code:    "bootstrap_failed",
		Message: "Service unavailable",
	}})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	fn := &httpFunction{build: bootstrap.Build}
	lambda.StartWithOptions(fn.handle, lambda.WithEnableSIGTERM(fn.close))
}
