package sim

import "fmt"

// BuyWeapon charges the tank the catalog price and adds a stack of rounds.
// Unlimited stacks are charged but never change size.
func (m *Match) BuyWeapon(tankID int, weaponID string) error {
	t := m.tankByID(tankID)
	if t == nil {
		return ErrUnknownTank
	}
	i := findWeapon(t.Weapons, weaponID)
	if i < 0 {
		return ErrUnknownWeapon
	}
	w := &t.Weapons[i]
	if t.Money < w.Price {
		return ErrInsufficientFunds
	}
	t.Money -= w.Price
	if !w.IsUnlimited() {
		w.Quantity += stackPurchase
	}
	m.log(t.Label(), "shop", "weapon", fmt.Sprintf("%s qty=%d money=%d", w.ID, w.Quantity, t.Money), float64(w.Price))
	return nil
}

// BuyItem charges the tank for one consumable.
func (m *Match) BuyItem(tankID int, itemID string) error {
	t := m.tankByID(tankID)
	if t == nil {
		return ErrUnknownTank
	}
	item, ok := findItem(itemID)
	if !ok {
		return ErrUnknownItem
	}
	if t.Money < item.Price {
		return ErrInsufficientFunds
	}
	t.Money -= item.Price
	switch item.ID {
	case ItemShield:
		t.Shields++
	case ItemParachute:
		t.Parachutes++
	case ItemFuel:
		t.Fuel++
	}
	m.log(t.Label(), "shop", "item", fmt.Sprintf("%s money=%d", item.ID, t.Money), float64(item.Price))
	return nil
}

// Affordable returns the catalog entries the tank can currently pay for.
func (m *Match) Affordable(tankID int) []Weapon {
	t := m.tankByID(tankID)
	if t == nil {
		return nil
	}
	var out []Weapon
	for _, w := range t.Weapons {
		if w.Price > 0 && w.Price <= t.Money {
			out = append(out, w)
		}
	}
	return out
}
