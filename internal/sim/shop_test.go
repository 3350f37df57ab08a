package sim

import (
	"errors"
	"testing"
)

func TestShop_BuyWeapon(t *testing.T) {
	tm := quietDuel()
	if err := tm.BuyWeapon(0, "nuke"); err != nil {
		t.Fatal(err)
	}
	tk := mustTank(t, tm, 0)
	if tk.Money != DefaultMoney-500 {
		t.Errorf("money = %d", tk.Money)
	}
	if q := tk.Weapons[findWeapon(tk.Weapons, "nuke")].Quantity; q != stackPurchase {
		t.Errorf("nuke stack = %d, want %d", q, stackPurchase)
	}
	if err := tm.BuyWeapon(0, "deaths-head"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("overspend: %v", err)
	}
	if mustTank(t, tm, 0).Money != DefaultMoney-500 {
		t.Fatal("rejected purchase charged the tank")
	}
	if err := tm.BuyWeapon(0, "laser"); !errors.Is(err, ErrUnknownWeapon) {
		t.Fatalf("unknown weapon: %v", err)
	}
	if err := tm.BuyWeapon(9, "nuke"); !errors.Is(err, ErrUnknownTank) {
		t.Fatalf("unknown tank: %v", err)
	}
}

func TestShop_UnlimitedStackUnchanged(t *testing.T) {
	tm := quietDuel()
	if err := tm.BuyWeapon(0, "baby-missile"); err != nil {
		t.Fatal(err)
	}
	tk := mustTank(t, tm, 0)
	if tk.Weapons[0].Quantity != Unlimited || tk.Money != DefaultMoney {
		t.Fatalf("free unlimited purchase: qty=%d money=%d", tk.Weapons[0].Quantity, tk.Money)
	}
}

func TestShop_BuyItemChargesItemPrice(t *testing.T) {
	tm := quietDuel()
	for _, id := range []string{ItemShield, ItemParachute, ItemFuel} {
		if err := tm.BuyItem(0, id); err != nil {
			t.Fatal(err)
		}
	}
	tk := mustTank(t, tm, 0)
	if tk.Money != DefaultMoney-350 {
		t.Errorf("money = %d, want %d", tk.Money, DefaultMoney-350)
	}
	if tk.Shields != 1 || tk.Parachutes != 1 || tk.Fuel != 1 {
		t.Errorf("items = %d/%d/%d", tk.Shields, tk.Parachutes, tk.Fuel)
	}
	if err := tm.BuyItem(0, "cloak"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("unknown item: %v", err)
	}
}

func TestShop_Affordable(t *testing.T) {
	tm := quietDuel(Configure(WithStartingMoney(100)))
	for _, w := range tm.Affordable(0) {
		if w.Price > 100 || w.Price == 0 {
			t.Errorf("%s (%d) listed as affordable", w.ID, w.Price)
		}
	}
	if len(tm.Affordable(0)) == 0 {
		t.Fatal("nothing affordable with 100")
	}
}
