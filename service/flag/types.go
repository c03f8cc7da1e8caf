package flag

import "github.com/elC0mpa/lease-cost/model"

type service struct{}

type FlagService interface {
	GetParsedFlags() (model.Flags, error)
}
