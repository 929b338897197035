// Package migration creates the reference and output tables on startup so
// a fresh deployment is usable without a separate schema step.
package migration

import (
	"gorm.io/gorm"

	banddomain "github.com/cdrmed/cdrmed/internal/band/domain"
	callrecorddomain "github.com/cdrmed/cdrmed/internal/callrecord/domain"
	extensiondomain "github.com/cdrmed/cdrmed/internal/extension/domain"
	indicatordomain "github.com/cdrmed/cdrmed/internal/indicator/domain"
	pbxruledomain "github.com/cdrmed/cdrmed/internal/pbxrule/domain"
	prefixdomain "github.com/cdrmed/cdrmed/internal/prefix/domain"
	quarantinedomain "github.com/cdrmed/cdrmed/internal/quarantine/domain"
	ssdomain "github.com/cdrmed/cdrmed/internal/specialservice/domain"
	tariffdomain "github.com/cdrmed/cdrmed/internal/tariff/domain"
	trunkdomain "github.com/cdrmed/cdrmed/internal/trunkrule/domain"
)

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		prefixdomain.Prefix{},
		indicatordomain.Indicator{},
		indicatordomain.NDC{},
		indicatordomain.Series{},
		indicatordomain.TypeNDCLen{},
		indicatordomain.LocalExtendedLink{},
		banddomain.Band{},
		banddomain.BandIndicator{},
		pbxruledomain.Rule{},
		extensiondomain.Employee{},
		extensiondomain.Extension{},
		extensiondomain.AuthCode{},
		extensiondomain.ExtensionRange{},
		ssdomain.SpecialService{},
		trunkdomain.TrunkRate{},
		trunkdomain.NumberTransform{},
		tariffdomain.Rate{},
		tariffdomain.SpecialRate{},
		callrecorddomain.CallRecord{},
		quarantinedomain.Record{},
	)
}
