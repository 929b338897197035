package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/cdrmed/cdrmed/internal/band"
	"github.com/cdrmed/cdrmed/internal/callrecord"
	"github.com/cdrmed/cdrmed/internal/classifier"
	"github.com/cdrmed/cdrmed/internal/clock"
	"github.com/cdrmed/cdrmed/internal/config"
	"github.com/cdrmed/cdrmed/internal/extension"
	"github.com/cdrmed/cdrmed/internal/indicator"
	"github.com/cdrmed/cdrmed/internal/logger"
	"github.com/cdrmed/cdrmed/internal/mediation"
	"github.com/cdrmed/cdrmed/internal/migration"
	"github.com/cdrmed/cdrmed/internal/observability"
	"github.com/cdrmed/cdrmed/internal/pbxrule"
	"github.com/cdrmed/cdrmed/internal/prefix"
	"github.com/cdrmed/cdrmed/internal/quarantine"
	"github.com/cdrmed/cdrmed/internal/specialservice"
	"github.com/cdrmed/cdrmed/internal/tariff"
	"github.com/cdrmed/cdrmed/internal/trunkrule"
	"github.com/cdrmed/cdrmed/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Rating domains
		prefix.Module,
		indicator.Module,
		band.Module,
		pbxrule.Module,
		extension.Module,
		specialservice.Module,
		trunkrule.Module,
		tariff.Module,
		quarantine.Module,
		callrecord.Module,
		classifier.Module,
		mediation.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
