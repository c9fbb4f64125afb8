// Package mocks holds testify mocks for the aggregation interfaces.
package mocks

import (
	"context"

	"foodhub/agg-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type StoreInterface struct{ mock.Mock }

func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *StoreInterface) RecordSale(ctx context.Context, key, day string, items []domain.EventItem, revenue float64) (bool, error) {
	ret := _m.Called(ctx, key, day, items, revenue)
	return ret.Bool(0), ret.Error(1)
}

func (_m *StoreInterface) RevertSale(ctx context.Context, key, day string, items []domain.EventItem, revenue float64) (bool, error) {
	ret := _m.Called(ctx, key, day, items, revenue)
	return ret.Bool(0), ret.Error(1)
}

func (_m *StoreInterface) RecordRating(ctx context.Context, key, day string, rating int) (bool, error) {
	ret := _m.Called(ctx, key, day, rating)
	return ret.Bool(0), ret.Error(1)
}

func (_m *StoreInterface) AverageRating(ctx context.Context) (float64, int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(float64), ret.Get(1).(int64), ret.Error(2)
}
