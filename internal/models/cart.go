package models

// CartItem is a line in a cart. Items are keyed by Name within a cart.
type CartItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price,omitempty"`
	Image    string  `json:"image,omitempty"`
	Quantity int     `json:"quantity"`
}

// User is the demo user returned by login.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChatReply is the bot's answer to a chat message. Product is set when the
// message mentioned a catalog product; BuyIntent when the user asked to buy it.
type ChatReply struct {
	Text      string   `json:"text"`
	Product   *Product `json:"product,omitempty"`
	BuyIntent bool     `json:"buy_intent,omitempty"`
}
