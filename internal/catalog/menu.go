package catalog

import (
	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

const (
	whopperImage = "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcRxXwYBrFVpP3OGlJQpmHqfZmqu5j5iAD53gg&s"
	burgerImage  = "https://www.foodandwine.com/thmb/DI29Houjc_ccAtFKly0BbVsusHc=/1500x0/filters:no_upscale():max_bytes(150000):strip_icc()/crispy-comte-cheesburgers-FT-RECIPE0921-6166c6552b7148e8a8561f7765ddf20b.jpg"
	pizzaImage   = "https://images.example.com/menu/pizza.jpg"
	sideImage    = "https://images.example.com/menu/side.jpg"
	drinkImage   = "https://images.example.com/menu/drink.jpg"
	dessertImage = "https://images.example.com/menu/dessert.jpg"
)

// DefaultMenu returns the built-in menu. Each call returns a fresh slice.
func DefaultMenu() []domain.Product {
	return []domain.Product{
		item("1", "Double Whopper", "29.57", whopperImage, "Burgers", "Large", "", "Mild"),
		item("2", "Steakhouse XL", "35.65", burgerImage, "Burgers", "Large", "", "Medium"),
		item("3", "Classic Beef Burger", "25.50", burgerImage, "Burgers", "Regular", "", "Mild"),
		item("4", "Premium Deluxe", "42.75", burgerImage, "Burgers", "Large", "", "Mild"),
		item("5", "BBQ Special", "38.90", whopperImage, "Burgers", "Regular", "", "Hot"),
		item("6", "Chicken Supreme", "31.25", burgerImage, "Burgers", "Regular", "Halal", "Medium"),
		item("7", "Veggie Stack", "12.40", burgerImage, "Burgers", "Regular", "Vegetarian", "Mild"),
		item("8", "Margherita Pizza", "11.99", pizzaImage, "Pizza", "Medium", "Vegetarian", "Mild"),
		item("9", "Pepperoni Pizza", "13.50", pizzaImage, "Pizza", "Medium", "", "Medium"),
		item("10", "Diablo Pizza", "16.25", pizzaImage, "Pizza", "Large", "", "Hot"),
		item("11", "Fries", "3.50", sideImage, "Sides", "Small", "Vegan", ""),
		item("12", "Loaded Fries", "6.75", sideImage, "Sides", "Large", "Vegetarian", "Medium"),
		item("13", "Onion Rings", "4.25", sideImage, "Sides", "Small", "Vegetarian", ""),
		item("14", "Cola", "2.00", drinkImage, "Drinks", "Regular", "Vegan", ""),
		item("15", "Fresh Lemonade", "4.99", drinkImage, "Drinks", "Large", "Vegan", ""),
		item("16", "Chocolate Shake", "5.50", drinkImage, "Drinks", "Regular", "Vegetarian", ""),
		item("17", "Brownie Sundae", "7.25", dessertImage, "Desserts", "Regular", "Vegetarian", ""),
		item("18", "Apple Pie", "3.75", dessertImage, "Desserts", "Small", "Vegan", ""),
	}
}

func item(id, name, price, image, category, size, dietary, spice string) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Image:      image,
		Category:   category,
		Size:       size,
		Dietary:    dietary,
		SpiceLevel: spice,
	}
}
