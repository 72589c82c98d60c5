package bot

// SkinTypes is the static list offered by /skin_types.
var SkinTypes = []string{"oily", "dry", "combination", "sensitive", "normal"}

// BeautyTips is the fixed tip list the daily broadcast draws from.
var BeautyTips = []string{
	"Drink plenty of water to keep your skin hydrated.",
	"Always remove your makeup before going to bed.",
	"Use a broad-spectrum sunscreen every day, even on cloudy days.",
	"Exfoliate your skin regularly to remove dead skin cells.",
	"Choose skincare products that suit your skin type for the best results.",
}
