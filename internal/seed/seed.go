// Package seed provisions a usable demo dataset on first boot of a
// non-production environment: one admin and a couple of manufacturer
// profiles so freshly created jobs have candidates to match against.
package seed

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
	manufacturerdomain "github.com/forgenet/forgenet/internal/manufacturer/domain"
)

const demoPassword = "forgenet-demo"

type demoManufacturer struct {
	name          string
	email         string
	state         string
	zip           string
	materials     []string
	toleranceTier string
	capacity      float64
	equipment     datatypes.JSONMap
}

var demoManufacturers = []demoManufacturer{
	{
		name:          "Cascade Precision Machining",
		email:         "cascade@demo.forgenet.local",
		state:         "OR",
		zip:           "97201",
		materials:     []string{"6061-T6 Aluminum", "7075 Aluminum", "304 Stainless Steel"},
		toleranceTier: "high",
		capacity:      0.8,
		equipment:     datatypes.JSONMap{"cnc_mill": true, "cnc_lathe": true},
	},
	{
		name:          "Lakeside Additive Works",
		email:         "lakeside@demo.forgenet.local",
		state:         "MI",
		zip:           "48201",
		materials:     []string{"PLA", "ABS"},
		toleranceTier: "medium",
		capacity:      0.6,
		equipment:     datatypes.JSONMap{"fdm_printer": true, "sla_printer": true},
	},
}

// EnsureDemoData is idempotent: existing rows are left untouched.
func EnsureDemoData(conn *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := ensureUser(conn, node, identitydomain.User{
		Role:         identitydomain.RoleAdmin,
		Name:         "ForgeNet Admin",
		Email:        "admin@demo.forgenet.local",
		PasswordHash: string(hash),
	}, log); err != nil {
		return err
	}

	for _, demo := range demoManufacturers {
		user := identitydomain.User{
			Role:         identitydomain.RoleManufacturer,
			Name:         demo.name,
			Email:        demo.email,
			PasswordHash: string(hash),
		}
		if err := ensureUser(conn, node, user, log); err != nil {
			return err
		}

		var existing identitydomain.User
		if err := conn.First(&existing, "email = ?", demo.email).Error; err != nil {
			return err
		}

		profile := manufacturerdomain.Manufacturer{
			ID:            existing.ID,
			LocationState: demo.state,
			LocationZip:   demo.zip,
			Equipment:     demo.equipment,
			Materials:     datatypes.NewJSONSlice(demo.materials),
			ToleranceTier: demo.toleranceTier,
			CapacityScore: demo.capacity,
		}
		res := conn.Where("id = ?", existing.ID).FirstOrCreate(&profile)
		if res.Error != nil {
			return res.Error
		}
	}

	log.Info("demo data ensured", zap.Int("manufacturers", len(demoManufacturers)))
	return nil
}

func ensureUser(conn *gorm.DB, node *snowflake.Node, user identitydomain.User, log *zap.Logger) error {
	var count int64
	if err := conn.Model(&identitydomain.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	user.ID = node.Generate()
	if err := conn.Create(&user).Error; err != nil {
		return err
	}
	log.Info("seeded user", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return nil
}
