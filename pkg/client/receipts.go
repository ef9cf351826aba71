package client

import (
	"context"
	"net/url"

	"expensems/pkg/api"

	"github.com/google/uuid"
)

// UploadReceipt attaches a receipt file to an expense, replacing any
// existing one.
func (c *Client) UploadReceipt(ctx context.Context, expenseID uuid.UUID, fileName string, content []byte) (*api.Receipt, error) {
	query := url.Values{"expenseId": {expenseID.String()}}
	var receipt api.Receipt
	if err := c.doMultipart(ctx, "/api/receipts", query, "file", fileName, content, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// DownloadReceipt fetches the receipt blob and its content type.
func (c *Client) DownloadReceipt(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	return c.doRaw(ctx, "GET", "/api/receipts/"+id.String(), nil)
}
