package bot

import (
	"fmt"
	"strings"

	"github.com/useglowbot/glowbot/catalog"
)

// maxListedProducts caps every product listing reply.
const maxListedProducts = 5

const replyTryAgain = "Something went wrong. Please try again."

const welcomeText = "Welcome to the Makeup Product Finder Bot! \U0001F484✨\n" +
	"I can help you find makeup products and get details about them.\n" +
	"Type /help to see the available commands."

const helpText = `Here are some commands you can use:
/find <brand> - Find products by brand (e.g., /find colourpop)
/product <id> - Get details of a product by its ID
/random - Get a random makeup product suggestion
/tags - List all available tags
/brands - List all available brands
/product_types - List all available product types
/categories - List all available categories
/category <name> <type> - Find products by category and type (e.g., /category powder blush)
/tag <name> <type> - Find products by tag and type (e.g., /tag vegan blush)
/set_preferences <skin_type> <brand> <category> - Set your preferences
/recommendations - Get personalized recommendations
/skin_types - Get skin types`

func listReply(header string, values []string) Reply {
	return Reply{Text: header + "\n" + strings.Join(values, "\n")}
}

// formatProductList renders up to maxListedProducts entries as name, price
// and link lines under the given header.
func formatProductList(header string, products []catalog.Product) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for i, product := range products {
		if i == maxListedProducts {
			break
		}
		fmt.Fprintf(&b, "%s - $%s %s\n", product.Name, product.Price, product.Currency)
		fmt.Fprintf(&b, "More info: %s\n\n", product.ProductLink)
	}
	return b.String()
}

// formatProductDetail renders the full single-product reply.
func formatProductDetail(product *catalog.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", product.Name)
	fmt.Fprintf(&b, "Brand: %s\n", product.Brand)
	fmt.Fprintf(&b, "Price: %s%s %s\n", product.PriceSign, product.Price, product.Currency)
	fmt.Fprintf(&b, "Description: %s\n", product.Description)
	fmt.Fprintf(&b, "Product Link: %s\n", product.ProductLink)
	return b.String()
}

// normalizeImageLink upgrades protocol-relative links to https. Links that
// are already absolute pass through unchanged.
func normalizeImageLink(link string) string {
	if strings.HasPrefix(link, "//") {
		return "https:" + link
	}
	return link
}
