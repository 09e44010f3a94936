package sws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/beevik/etree"

	"enhanced-seatmap/internal/infra"
)

const maxResponseBytes = 16 << 20

// CallRequest mirrors the host's callSws contract.
type CallRequest struct {
	Action        string
	Payload       []byte
	AuthTokenType string
	Token         string
}

// Caller performs one back-end round-trip and returns the response document.
// Only network-level failures are errors; business failures come back as a
// normal body carrying an error marker.
type Caller interface {
	Call(ctx context.Context, req CallRequest) (string, error)
}

type HTTPCaller struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

func NewHTTPCaller(endpoint string, client *http.Client, logger *slog.Logger) *HTTPCaller {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPCaller{endpoint: endpoint, client: client, logger: logger}
}

func (c *HTTPCaller) Call(ctx context.Context, req CallRequest) (string, error) {
	envelope, err := buildEnvelope(req)
	if err != nil {
		return "", infra.WrapAdapterErr(c.logger, infra.KindTransport, "failed to build envelope for "+req.Action, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(envelope))
	if err != nil {
		return "", infra.WrapAdapterErr(c.logger, infra.KindTransport, "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("SOAPAction", req.Action)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", infra.WrapAdapterErr(c.logger, infra.KindTimeout, req.Action+" timed out", err)
		}
		return "", infra.WrapAdapterErr(c.logger, infra.KindTransport, req.Action+" failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", infra.WrapAdapterErr(c.logger, infra.KindTimeout, req.Action+" timed out", err)
		}
		return "", infra.WrapAdapterErr(c.logger, infra.KindTransport, "failed to read "+req.Action+" response", err)
	}

	doc, fault := unwrapEnvelope(body)
	if fault != "" {
		return "", infra.WrapAdapterErr(c.logger, infra.KindTransport, fault, nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", infra.WrapAdapterErr(c.logger, infra.KindTransport,
			fmt.Sprintf("%s returned status %d", req.Action, resp.StatusCode), nil)
	}
	return doc, nil
}

func buildEnvelope(req CallRequest) ([]byte, error) {
	payload := etree.NewDocument()
	if err := payload.ReadFromBytes(req.Payload); err != nil {
		return nil, err
	}
	if payload.Root() == nil {
		return nil, errors.New("empty payload")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	env := doc.CreateElement("soap-env:Envelope")
	env.CreateAttr("xmlns:soap-env", "http://schemas.xmlsoap.org/soap/envelope/")

	header := env.CreateElement("soap-env:Header")
	msg := header.CreateElement("MessageHeader")
	msg.CreateElement("Action").SetText(req.Action)
	sec := header.CreateElement("Security")
	tok := sec.CreateElement("BinarySecurityToken")
	tok.CreateAttr("valueType", req.AuthTokenType)
	tok.SetText(req.Token)

	env.CreateElement("soap-env:Body").AddChild(payload.Root().Copy())
	return doc.WriteToBytes()
}

// unwrapEnvelope returns the first element inside a SOAP Body, or the raw
// document when there is no envelope. A SOAP Fault yields its faultstring.
func unwrapEnvelope(body []byte) (string, string) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return string(body), ""
	}
	bodyEl := doc.FindElement("./Envelope/Body")
	if bodyEl == nil {
		return string(body), ""
	}
	if fault := bodyEl.FindElement("./Fault"); fault != nil {
		msg := "SOAP fault"
		if fs := fault.FindElement(".//faultstring"); fs != nil && strings.TrimSpace(fs.Text()) != "" {
			msg = strings.TrimSpace(fs.Text())
		}
		return "", msg
	}
	children := bodyEl.ChildElements()
	if len(children) == 0 {
		return "", ""
	}
	out := etree.NewDocument()
	out.SetRoot(children[0].Copy())
	s, err := out.WriteToString()
	if err != nil {
		return string(body), ""
	}
	return s, ""
}
