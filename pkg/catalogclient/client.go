// Package catalogclient talks to the catalog API and holds the view and form
// state a user interface needs to browse, create, edit and delete products.
package catalogclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"catalog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// DefaultBaseURL is where the catalog API listens by default.
const DefaultBaseURL = "http://localhost:3001"

var (
	// ErrDuplicateBarcode is returned when the API answers 422.
	ErrDuplicateBarcode = errors.New("product with this barcode already exists")
	// ErrNotFound is returned when the API answers 404.
	ErrNotFound = errors.New("product not found")
)

// StatusError is any other non-2xx answer from the API.
type StatusError struct {
	Code    int
	Message string
}

// Error includes the status code and the server's message.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog api: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("catalog api: status %d: %s", e.Code, e.Message)
}

// API is the set of catalog operations the views and forms depend on.
type API interface {
	Insert(drafts ...models.Product) ([]models.Product, error)
	List() ([]models.Product, error)
	Get(id string) (*models.Product, error)
	Update(id string, product models.Product) (*models.Product, error)
	Delete(id string) (*models.Product, error)
}

// Client is an HTTP implementation of API.
type Client struct {
	baseURL string
	http    *fiber.Client
}

// New returns a Client for the API rooted at baseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &fiber.Client{},
	}
}

type insertResponse struct {
	Message string           `json:"message"`
	Data    []models.Product `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Insert sends one draft as an object, several as an array.
func (c *Client) Insert(drafts ...models.Product) ([]models.Product, error) {
	if len(drafts) == 0 {
		return nil, errors.New("catalog api: nothing to insert")
	}
	var payload any = drafts
	if len(drafts) == 1 {
		payload = drafts[0]
	}

	var resp insertResponse
	if err := c.do(c.http.Post(c.url("insertproduct")).JSON(payload), fiber.StatusCreated, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// List returns every stored product.
func (c *Client) List() ([]models.Product, error) {
	products := []models.Product{}
	if err := c.do(c.http.Get(c.url("products")), fiber.StatusOK, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get returns the product with the given id, or ErrNotFound.
func (c *Client) Get(id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(c.http.Get(c.url("products", id)), fiber.StatusOK, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update replaces all product fields of the record with the given id.
func (c *Client) Update(id string, product models.Product) (*models.Product, error) {
	var updated models.Product
	if err := c.do(c.http.Put(c.url("updateproduct", id)).JSON(product), fiber.StatusOK, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the product with the given id and returns it.
func (c *Client) Delete(id string) (*models.Product, error) {
	var deleted models.Product
	if err := c.do(c.http.Delete(c.url("deleteproduct", id)), fiber.StatusOK, &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (c *Client) url(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// do runs the request and decodes the body into out when the status matches.
func (c *Client) do(agent *fiber.Agent, want int, out any) error {
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("catalog api: request failed: %w", errors.Join(errs...))
	}

	if code != want {
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		switch code {
		case fiber.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %s", ErrDuplicateBarcode, apiErr.Error)
		case fiber.StatusNotFound:
			return ErrNotFound
		default:
			return &StatusError{Code: code, Message: apiErr.Error}
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("catalog api: decode response: %w", err)
	}
	return nil
}
