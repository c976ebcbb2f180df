package model

import "strings"

// ClientType is the pricing tier key.
type ClientType string

const (
	ClientPublic    ClientType = "PUBLICO"
	ClientKitchen   ClientType = "COCINA"
	ClientLoyal     ClientType = "LEAL"
	ClientAllied    ClientType = "ALIADO"
	ClientWholesale ClientType = "MAYOREO"
)

var ClientTypes = []ClientType{ClientPublic, ClientKitchen, ClientLoyal, ClientAllied, ClientWholesale}

func ParseClientType(value string) (ClientType, bool) {
	ct := ClientType(strings.ToUpper(strings.TrimSpace(value)))
	for _, known := range ClientTypes {
		if ct == known {
			return ct, true
		}
	}
	return "", false
}

// Rank orders client types for listings.
func (c ClientType) Rank() int {
	for i, known := range ClientTypes {
		if c == known {
			return i
		}
	}
	return len(ClientTypes)
}

func (c ClientType) Label() string {
	switch c {
	case ClientPublic:
		return "Público"
	case ClientKitchen:
		return "Cocina"
	case ClientLoyal:
		return "Leal"
	case ClientAllied:
		return "Aliado"
	case ClientWholesale:
		return "Mayoreo"
	}
	return string(c)
}
