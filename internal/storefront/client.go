package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/app/services"
	httpclient "github.com/fashionhub/storefront/pkg/http"
)

// Client is the typed API client the storefront runtime uses to talk to
// the REST API. It injects the bearer token and unwraps the response
// envelope.
type Client struct {
	baseURL string

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the given API base URL, e.g.
// "http://localhost:8080/api/v1".
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// apiEnvelope mirrors the server's uniform response wrapper.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) send(req *httpclient.Request, out interface{}) error {
	if token := c.bearer(); token != "" {
		req.Header("Authorization", "Bearer "+token)
	}

	resp, err := req.Retry(2, 500*time.Millisecond).Send()
	if err != nil {
		return err
	}

	var env apiEnvelope
	if err := resp.JSON(&env); err != nil {
		return err
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode())
		}
		return fmt.Errorf("api: %s", msg)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// LoginResult is the token and account returned by login.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.send(httpclient.Post(c.baseURL+"/auth/login").
		Context(ctx).
		Body(map[string]string{"email": email, "password": password}), &out)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// FetchProducts loads the full catalog. It satisfies CatalogFetcher so
// the Refresher can drive it directly.
func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := c.send(httpclient.Get(c.baseURL+"/products?limit=500").Context(ctx), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder submits a checkout request built from the cart state.
func (c *Client) CreateOrder(ctx context.Context, in services.CreateOrderInput) (*models.Order, error) {
	var out models.Order
	err := c.send(httpclient.Post(c.baseURL+"/orders").
		Context(ctx).
		Body(in), &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout converts the cart snapshot into an order request, submits it,
// and clears the cart on success.
func (c *Client) Checkout(ctx context.Context, cart *CartStore, addr models.ShippingAddress, method models.PaymentMethod) (*models.Order, error) {
	state := cart.State()

	items := make([]services.OrderItemInput, 0, len(state.Items))
	for _, line := range state.Items {
		customization := line.Customization
		if customization == nil && line.Size != "" {
			customization = &models.Customization{Size: line.Size}
		}
		items = append(items, services.OrderItemInput{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			Customization: customization,
		})
	}

	order, err := c.CreateOrder(ctx, services.CreateOrderInput{
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   method,
	})
	if err != nil {
		return nil, err
	}

	cart.Dispatch(ClearCart{})
	return order, nil
}
