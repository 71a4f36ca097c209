package services

import (
	appContext "github.com/alphabatem/common/context"

	"github.com/thu-furniture/thu_api/model"
)

// CatalogService resolves a product-inquiry slug into the catalog entry it
// names, so inquiry emails can carry the piece's proper name instead of a raw
// slug. The catalog is static marketing data and lives in memory.
type CatalogService struct {
	appContext.DefaultService

	products map[string]model.Product
}

const CATALOG_SVC = "catalog_svc"

func (svc CatalogService) Id() string {
	return CATALOG_SVC
}

func (svc *CatalogService) Configure(ctx *appContext.Context) error {
	svc.products = make(map[string]model.Product, len(catalogProducts))
	for _, p := range catalogProducts {
		svc.products[p.Slug] = p
	}
	return svc.DefaultService.Configure(ctx)
}

// Resolve returns the product for a slug. ok is false for slugs not in the
// catalog; callers fall back to the sanitized raw value.
func (svc *CatalogService) Resolve(slug string) (model.Product, bool) {
	p, ok := svc.products[slug]
	return p, ok
}

var catalogProducts = []model.Product{
	{Slug: "alice_lounge_chair", Name: "Alice Lounge Chair", Category: "seating"},
	{Slug: "aria_side_table", Name: "Arya Side Table", Category: "tables"},
	{Slug: "elizabeth_sofa", Name: "Elizabeth Sofa", Category: "sofas"},
	{Slug: "ashley_sofa", Name: "Ashley Sofa", Category: "sofas"},
	{Slug: "billy_sofa", Name: "Billy Sofa", Category: "sofas"},
	{Slug: "ethan_arm_chair", Name: "Ethan Armchair", Category: "seating"},
	{Slug: "hannah_sofa", Name: "Hannah Sofa", Category: "sofas"},
	{Slug: "jade_side_table", Name: "Jade Side Table", Category: "tables"},
	{Slug: "justin_sofa", Name: "Justin Sofa", Category: "sofas"},
	{Slug: "karlina_sofa", Name: "Karlina Sofa", Category: "sofas"},
	{Slug: "koby_sofa", Name: "Koby Sofa", Category: "sofas"},
	{Slug: "koi_office_chair", Name: "Koi Office Chair", Category: "seating"},
	{Slug: "mila_ottoman", Name: "Mila Ottoman", Category: "ottomans"},
	{Slug: "monaco_ottoman", Name: "Monaco Round Ottoman", Category: "ottomans"},
	{Slug: "nora_accent_chair", Name: "Nora Accent Chair", Category: "seating"},
	{Slug: "paris_atelier_ottoman", Name: "Paris Atelier Ottoman", Category: "ottomans"},
	{Slug: "rome_ottoman", Name: "Rome Ottoman", Category: "ottomans"},
	{Slug: "sia_bench", Name: "Sia Bench", Category: "seating"},
	{Slug: "th_signature_bed", Name: "TH Signature Bed", Category: "beds"},
	{Slug: "thomas_arm_chair", Name: "Thomas Armchair", Category: "seating"},
	{Slug: "vienna_ottoman", Name: "Vienna Ottoman", Category: "ottomans"},
	{Slug: "zara_bench", Name: "Zara Bench", Category: "seating"},

	{Slug: "florence_console", Name: "Florence Console", Category: "tables", CustomMade: true},
	{Slug: "marseille_bed", Name: "The Marseille Bed", Category: "beds", CustomMade: true},
	{Slug: "lyon_bench", Name: "The Lyon Bench", Category: "seating", CustomMade: true},
	{Slug: "verona_nightstand", Name: "The Verona Nightstand", Category: "storage", CustomMade: true},
	{Slug: "palermo_bed", Name: "The Palermo Bed", Category: "beds", CustomMade: true},
	{Slug: "capri_vanity_set", Name: "The Capri Vanity Set", Category: "tables", CustomMade: true},
	{Slug: "enzo_bed", Name: "The Enzo Bed", Category: "beds", CustomMade: true},
	{Slug: "nova_console", Name: "The Nova Console", Category: "tables", CustomMade: true},
	{Slug: "azure_bed", Name: "The Azure Bed", Category: "beds", CustomMade: true},
	{Slug: "orion_nightstand", Name: "The Orion Nightstand", Category: "storage", CustomMade: true},
	{Slug: "heaven_bed", Name: "The Heaven Bed", Category: "beds", CustomMade: true},
	{Slug: "seren_nightstand", Name: "SerenNightstand", Category: "storage", CustomMade: true},
	{Slug: "alto_dresser", Name: "The Alto Dresser", Category: "storage", CustomMade: true},
	{Slug: "rosa_bed", Name: "Rosa Bed", Category: "beds", CustomMade: true},
	{Slug: "nox_nightstand", Name: "The Nox Nightstand", Category: "storage", CustomMade: true},
	{Slug: "monarch_bed", Name: "The Monarch Bed", Category: "beds", CustomMade: true},
	{Slug: "saville_bed", Name: "The Saville Bed", Category: "beds", CustomMade: true},
	{Slug: "marlow_credenza", Name: "The Marlow Credenza", Category: "storage", CustomMade: true},
	{Slug: "aurea_console", Name: "Aurea Console", Category: "tables", CustomMade: true},
	{Slug: "nova_set", Name: "The Nova Set", Category: "collections", CustomMade: true},
	{Slug: "vela_collection", Name: "The Vela Collection", Category: "collections", CustomMade: true},
	{Slug: "ava_collection", Name: "The Ava Collection", Category: "collections", CustomMade: true},
	{Slug: "luca_collection", Name: "The Luca Collection", Category: "collections", CustomMade: true},
	{Slug: "nexa_sideboard", Name: "Nexa Sideboard", Category: "storage", CustomMade: true},
	{Slug: "mason_collection", Name: "The Mason Collection", Category: "collections", CustomMade: true},
	{Slug: "edmund_collection", Name: "The Edmund Collection", Category: "collections", CustomMade: true},
	{Slug: "winston_collection", Name: "The Winston Collection", Category: "collections", CustomMade: true},
	{Slug: "elowen_collection", Name: "The Elowen Collection", Category: "collections", CustomMade: true},
	{Slug: "aldric_chair", Name: "The Aldric Chair", Category: "seating", CustomMade: true},
}
