package midtrans

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"

	"github.com/rakapradana/kursusku-backend/pkg/config"
	pkgerrors "github.com/rakapradana/kursusku-backend/pkg/errors"
	"github.com/rakapradana/kursusku-backend/pkg/logger"
)

const (
	sandboxEnv    = "sandbox"
	productionEnv = "production"

	qrCodeActionName = "generate-qr-code"
)

var (
	errServerKeyRequired = errors.New("midtrans server key is required")
	errInvalidEnv        = fmt.Errorf("midtrans environment must be %q or %q", sandboxEnv, productionEnv)
)

var sdkEnvs = map[string]midtrans.EnvironmentType{
	sandboxEnv:    midtrans.Sandbox,
	productionEnv: midtrans.Production,
}

// charger is the slice of the Core API client the wrapper consumes.
type charger interface {
	ChargeTransaction(req *coreapi.ChargeReq) (*coreapi.ChargeResponse, *midtrans.Error)
}

// Client wraps the official Midtrans Core API client with centralized
// logging and error mapping. The environment comes from trusted
// configuration only.
type Client struct {
	core        charger
	serverKey   string
	environment string
	logger      *logger.Logger
}

// NewClient validates the credentials and binds the SDK to the environment.
func NewClient(ctx context.Context, cfg config.MidtransConfig, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	serverKey := strings.TrimSpace(cfg.ServerKey)
	if serverKey == "" {
		return nil, errServerKeyRequired
	}

	core := &coreapi.Client{}
	core.New(serverKey, sdkEnvs[env])

	c := &Client{
		core:        core,
		serverKey:   serverKey,
		environment: env,
		logger:      logg,
	}

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("midtrans client initialized (%s)", env))
	}
	return c, nil
}

// ServerKey returns the key used to verify webhook signatures.
func (c *Client) ServerKey() string {
	if c == nil {
		return ""
	}
	return c.serverKey
}

// Environment reports the normalized Midtrans environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// Customer carries the minimal detail the gateway wants about the payer.
type Customer struct {
	FirstName string
	Email     string
}

// ChargeParams describe a single charge request.
type ChargeParams struct {
	OrderID  string
	Amount   int64
	Customer Customer
}

// ChargeResult is the subset of the gateway response the platform stores.
type ChargeResult struct {
	TransactionID string
	PaymentType   string
	PaymentURL    string
}

// Charge creates a gateway transaction for the order. The returned payment
// URL prefers the scannable-code action and falls back to the redirect URL.
func (c *Client) Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	if params.OrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if params.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	req := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeGopay,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  params.OrderID,
			GrossAmt: params.Amount,
		},
		CustomerDetails: &midtrans.CustomerDetails{
			FName: params.Customer.FirstName,
			Email: params.Customer.Email,
		},
	}

	resp, chargeErr := c.core.ChargeTransaction(req)
	if chargeErr != nil {
		c.logChargeFailure(ctx, chargeErr.StatusCode, chargeErr.Error())
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, chargeErr, "call payment gateway")
	}
	if resp == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "empty gateway response")
	}

	// Midtrans reports the charge outcome in its own status_code field; a
	// denied charge still arrives as a successful HTTP exchange.
	if !isAcceptedStatus(resp.StatusCode) {
		c.logChargeFailure(ctx, 0, resp.StatusCode+" "+resp.StatusMessage)
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment gateway rejected the charge")
	}

	result := &ChargeResult{
		TransactionID: resp.TransactionID,
		PaymentType:   resp.PaymentType,
		PaymentURL:    paymentURL(resp),
	}
	if result.PaymentURL == "" {
		c.logChargeFailure(ctx, 0, resp.StatusCode+" "+resp.StatusMessage)
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "gateway response missing payment url")
	}
	return result, nil
}

func paymentURL(resp *coreapi.ChargeResponse) string {
	for _, action := range resp.Actions {
		if action.Name == qrCodeActionName && action.URL != "" {
			return action.URL
		}
	}
	return resp.RedirectURL
}

func isAcceptedStatus(code string) bool {
	// 200 for instant settlement, 201 for pending charges awaiting payment.
	return code == "200" || code == "201"
}

// logChargeFailure keeps raw provider detail in server logs; the error the
// caller sees stays generic.
func (c *Client) logChargeFailure(ctx context.Context, httpStatus int, detail string) {
	if c.logger == nil {
		return
	}
	fields := map[string]any{"gateway_response": detail}
	if httpStatus != 0 {
		fields["gateway_http_status"] = httpStatus
	}
	ctx = c.logger.WithFields(ctx, fields)
	c.logger.Warn(ctx, "midtrans charge failed")
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = sandboxEnv
	}
	switch env {
	case sandboxEnv, productionEnv:
		return env, nil
	default:
		return "", errInvalidEnv
	}
}
