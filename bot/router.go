package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/useglowbot/glowbot/catalog"
	"github.com/useglowbot/glowbot/store"
)

// Catalog is the subset of the catalog client the router needs.
type Catalog interface {
	Search(ctx context.Context, filters map[string]string) ([]catalog.Product, error)
	GetByID(ctx context.Context, id string) (*catalog.Product, error)
}

// Preferences is the subset of the preference store the router needs.
type Preferences interface {
	GetPreference(userID string) (store.Preference, bool)
	SetPreference(ctx context.Context, userID string, pref store.Preference) error
}

// Router maps parsed commands to catalog queries and preference updates and
// formats the reply text. It is stateless apart from its collaborators and
// safe for concurrent use.
type Router struct {
	catalog Catalog
	index   *catalog.Index
	prefs   Preferences
	logger  *slog.Logger

	// pick selects a random element index; replaced in tests.
	pick func(n int) int
}

// NewRouter creates a new command router.
func NewRouter(client Catalog, index *catalog.Index, prefs Preferences) *Router {
	return &Router{
		catalog: client,
		index:   index,
		prefs:   prefs,
		logger:  slog.Default(),
		pick:    rand.Intn,
	}
}

// Handle dispatches one command and returns the reply to send back. Any
// panic inside a handler degrades to a generic retry message; a single bad
// command never takes the process down.
func (r *Router) Handle(ctx context.Context, cmd Command) (reply Reply) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("command handler panicked", "command", cmd.Name, "panic", rec)
			reply = Reply{Text: replyTryAgain}
		}
	}()

	switch cmd.Name {
	case "start":
		return Reply{Text: welcomeText}
	case "help":
		return Reply{Text: helpText}
	case "skin_types":
		return listReply("Available Skin Types:", SkinTypes)
	case "tags":
		return listReply("Available Tags:", r.index.Tags())
	case "brands":
		return listReply("Available Brands:", r.index.Brands())
	case "product_types":
		return listReply("Available Product Types:", r.index.ProductTypes())
	case "categories":
		return listReply("Available Categories:", r.index.Categories())
	case "find":
		return r.handleFind(ctx, cmd)
	case "product":
		return r.handleProduct(ctx, cmd)
	case "random":
		return r.handleRandom(ctx)
	case "category":
		return r.handleCategory(ctx, cmd)
	case "tag":
		return r.handleTag(ctx, cmd)
	case "set_preferences":
		return r.handleSetPreferences(ctx, cmd)
	case "recommendations":
		return r.handleRecommendations(ctx, cmd)
	default:
		return Reply{Text: "Unknown command. Type /help to see the available commands."}
	}
}

func (r *Router) handleFind(ctx context.Context, cmd Command) Reply {
	if len(cmd.Args) < 1 {
		return Reply{Text: "Please specify a brand name (e.g., /find colourpop)."}
	}

	brand := cmd.Args[0]
	products, err := r.catalog.Search(ctx, map[string]string{"brand": brand})
	if err != nil {
		return r.upstreamReply(err, cmd)
	}
	if len(products) == 0 {
		return Reply{Text: fmt.Sprintf("No products found for brand '%s'.", brand)}
	}
	return Reply{Text: formatProductList(fmt.Sprintf("Products from '%s':", brand), products)}
}

func (r *Router) handleProduct(ctx context.Context, cmd Command) Reply {
	if len(cmd.Args) < 1 {
		return Reply{Text: "Please specify a product ID (e.g., /product 1048)."}
	}

	product, err := r.catalog.GetByID(ctx, cmd.Args[0])
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Reply{Text: "Product not found. Please check the ID and try again."}
		}
		return r.upstreamReply(err, cmd)
	}

	reply := Reply{Text: formatProductDetail(product)}
	if product.ImageLink != "" {
		reply.ImageURL = normalizeImageLink(product.ImageLink)
	}
	return reply
}

func (r *Router) handleRandom(ctx context.Context) Reply {
	products, err := r.catalog.Search(ctx, nil)
	if err != nil {
		return r.upstreamReply(err, Command{Name: "random"})
	}
	if len(products) == 0 {
		return Reply{Text: "No products available right now. Try again later."}
	}

	product := products[r.pick(len(products))]
	reply := Reply{Text: formatProductDetail(&product)}
	if product.ImageLink != "" {
		reply.ImageURL = normalizeImageLink(product.ImageLink)
	}
	return reply
}

func (r *Router) handleCategory(ctx context.Context, cmd Command) Reply {
	if len(cmd.Args) < 2 {
		return Reply{Text: "Please specify both a category and a product type (e.g., /category powder blush)."}
	}

	category := strings.ToLower(cmd.Args[0])
	productType := strings.ToLower(cmd.Args[1])
	products, err := r.catalog.Search(ctx, map[string]string{
		"product_category": category,
		"product_type":     productType,
	})
	if err != nil {
		return r.upstreamReply(err, cmd)
	}
	if len(products) == 0 {
		return Reply{Text: fmt.Sprintf("No products found for category '%s' and type '%s'.", category, productType)}
	}
	header := fmt.Sprintf("Products in category '%s' and type '%s':", category, productType)
	return Reply{Text: formatProductList(header, products)}
}

func (r *Router) handleTag(ctx context.Context, cmd Command) Reply {
	if len(cmd.Args) < 2 {
		return Reply{Text: "Please specify both a tag and a product type (e.g., /tag vegan blush)."}
	}

	tag := strings.ToLower(cmd.Args[0])
	productType := strings.ToLower(cmd.Args[1])
	products, err := r.catalog.Search(ctx, map[string]string{
		"product_tags": tag,
		"product_type": productType,
	})
	if err != nil {
		return r.upstreamReply(err, cmd)
	}
	if len(products) == 0 {
		return Reply{Text: fmt.Sprintf("No products found for tag '%s' and type '%s'.", tag, productType)}
	}
	header := fmt.Sprintf("Products with tag '%s' and type '%s':", tag, productType)
	return Reply{Text: formatProductList(header, products)}
}

func (r *Router) handleSetPreferences(ctx context.Context, cmd Command) Reply {
	if len(cmd.Args) < 3 {
		return Reply{Text: "Please specify your skin type, favorite brand, and product category (e.g., /set_preferences oily colourpop lipstick)."}
	}

	pref := store.Preference{
		SkinType:        cmd.Args[0],
		FavoriteBrand:   cmd.Args[1],
		ProductCategory: cmd.Args[2],
	}
	if err := r.prefs.SetPreference(ctx, cmd.UserID, pref); err != nil {
		r.logger.Error("failed to persist preferences", "user", cmd.UserID, "error", err)
		return Reply{Text: "Error setting preferences. Please try again."}
	}
	return Reply{Text: "Preferences saved successfully!"}
}

func (r *Router) handleRecommendations(ctx context.Context, cmd Command) Reply {
	pref, ok := r.prefs.GetPreference(cmd.UserID)
	if !ok {
		return Reply{Text: "You haven't set your preferences yet. Use /set_preferences to do so."}
	}

	products, err := r.catalog.Search(ctx, map[string]string{
		"brand":        pref.FavoriteBrand,
		"product_type": pref.ProductCategory,
	})
	if err != nil {
		return r.upstreamReply(err, cmd)
	}
	if len(products) == 0 {
		return Reply{Text: fmt.Sprintf("No products found for brand '%s' and category '%s'.", pref.FavoriteBrand, pref.ProductCategory)}
	}

	header := fmt.Sprintf("Recommended products for you (%s skin type, %s brand, %s category):",
		pref.SkinType, pref.FavoriteBrand, pref.ProductCategory)
	return Reply{Text: formatProductList(header, products)}
}

func (r *Router) upstreamReply(err error, cmd Command) Reply {
	r.logger.Error("catalog request failed", "command", cmd.Name, "args", cmd.Args, "error", err)
	return Reply{Text: replyTryAgain}
}
