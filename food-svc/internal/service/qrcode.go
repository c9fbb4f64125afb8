package service

import (
	"fmt"

	"foodhub/food-svc/internal/domain"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(o *domain.Order) ([]byte, error)
}

// TrackingQRGenerator encodes the public tracking URL of an order, shown at
// pickup and printed on delivery bags.
type TrackingQRGenerator struct {
	BaseURL string
}

func (g TrackingQRGenerator) Generate(o *domain.Order) ([]byte, error) {
	data := fmt.Sprintf("%s/track/%s", g.BaseURL, o.OrderNumber)
	return qrcode.Encode(data, qrcode.Medium, 256)
}
