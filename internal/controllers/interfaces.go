package controllers

import "github.com/shopspring/decimal"

//go:generate mockery --case=snake --name=PriceFeed

type PriceFeed interface {
	LastPrice(symbol string) (decimal.Decimal, error)
}
