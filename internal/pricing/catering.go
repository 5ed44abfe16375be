package pricing

import (
	"fmt"
	"sort"

	"github.com/tablescape/tablescape-orders-service/internal/money"
)

// CateringPriceCalculator resolves menu-item and combo selections into a
// catering-service subtotal plus its breakdown lines.
type CateringPriceCalculator struct{}

// ComputeCateringSubtotal prices every selection belonging to serviceID
// against the service's catalog. Per-person menu items multiply by the
// order's guest count; flat items do not. Combo contributions follow the
// primary-category serving count, and selected category items are reported
// as informational lines without adding into the combo total.
func (CateringPriceCalculator) ComputeCateringSubtotal(
	serviceID string,
	details *CateringDetails,
	quantities Quantities,
	guestCount int,
	currency string,
) (money.Money, []BreakdownLine, error) {
	if guestCount < 1 {
		return money.Money{}, nil, newError(ErrCodeInvalidGuestCount, "guest count %d, must be at least 1", guestCount)
	}
	if details == nil {
		return money.Money{}, nil, newError(ErrCodeInvalidService, "catering service %s has no catalog", serviceID)
	}

	selections, err := serviceSelections(serviceID, quantities)
	if err != nil {
		return money.Money{}, nil, err
	}

	menuByID := make(map[string]MenuItem, len(details.MenuItems))
	for _, item := range details.MenuItems {
		menuByID[item.ID] = item
	}

	total := money.Zero(currency)
	var lines []BreakdownLine

	// Standalone menu items.
	for _, sel := range selections {
		if sel.key.ComboID != "" || sel.qty == 0 {
			continue
		}
		item, ok := menuByID[sel.key.ItemID]
		if !ok {
			return money.Money{}, nil, newError(ErrCodeUnknownMenuItem, "menu item %q not in catalog of service %s", sel.key.ItemID, serviceID)
		}

		units := int64(sel.qty)
		if item.PriceType == PricePerPerson {
			units *= int64(guestCount)
		}
		amount, err := item.Price.MulInt(units)
		if err != nil {
			return money.Money{}, nil, wrapMoney(err)
		}
		if total, err = total.Add(amount); err != nil {
			return money.Money{}, nil, wrapMoney(err)
		}
		lines = append(lines, BreakdownLine{
			Label:    item.Name,
			Quantity: sel.qty,
			Amount:   amount,
		})
	}

	// Combos, in catalog order for stable output.
	knownCombos := make(map[string]bool, len(details.Combos))
	for _, combo := range details.Combos {
		knownCombos[combo.ID] = true
	}
	for _, sel := range selections {
		if sel.key.ComboID != "" && sel.qty > 0 && !knownCombos[sel.key.ComboID] {
			return money.Money{}, nil, newError(ErrCodeUnknownMenuItem, "combo %q not in catalog of service %s", sel.key.ComboID, serviceID)
		}
	}

	for _, combo := range details.Combos {
		contribution, comboLines, err := priceCombo(serviceID, combo, selections, guestCount, currency)
		if err != nil {
			return money.Money{}, nil, err
		}
		if contribution == nil {
			continue
		}
		if total, err = total.Add(*contribution); err != nil {
			return money.Money{}, nil, wrapMoney(err)
		}
		lines = append(lines, comboLines...)
	}

	return total, lines, nil
}

// priceCombo returns the combo's contribution, or nil when the combo is not
// selected at all.
func priceCombo(serviceID string, combo Combo, selections []selection, guestCount int, currency string) (*money.Money, []BreakdownLine, error) {
	type categoryItem struct {
		category ComboCategory
		item     ComboCategoryItem
		qty      int
	}

	itemsByCategory := make(map[string]map[string]ComboCategoryItem, len(combo.Categories))
	categoriesByID := make(map[string]ComboCategory, len(combo.Categories))
	for _, cat := range combo.Categories {
		categoriesByID[cat.ID] = cat
		byID := make(map[string]ComboCategoryItem, len(cat.Items))
		for _, item := range cat.Items {
			byID[item.ID] = item
		}
		itemsByCategory[cat.ID] = byID
	}

	comboQty := 0
	var selected []categoryItem
	for _, sel := range selections {
		if sel.key.ComboID != combo.ID {
			continue
		}
		if sel.key.ItemID == "" {
			comboQty = sel.qty
			continue
		}
		if sel.qty == 0 {
			continue
		}
		cat, ok := categoriesByID[sel.key.CategoryID]
		if !ok {
			return nil, nil, newError(ErrCodeUnknownMenuItem, "category %q not in combo %q", sel.key.CategoryID, combo.ID)
		}
		item, ok := itemsByCategory[sel.key.CategoryID][sel.key.ItemID]
		if !ok {
			return nil, nil, newError(ErrCodeUnknownMenuItem, "item %q not in category %q of combo %q", sel.key.ItemID, sel.key.CategoryID, combo.ID)
		}
		selected = append(selected, categoryItem{category: cat, item: item, qty: sel.qty})
	}

	if comboQty == 0 && len(selected) == 0 {
		return nil, nil, nil
	}

	// Serving count comes from the primary category; without one, or with no
	// primary selections, the directly-selected combo quantity stands in.
	// A selected combo never prices below one serving.
	effectiveQty := 0
	for _, ci := range selected {
		if ci.category.IsPrimary {
			effectiveQty += ci.qty
		}
	}
	if effectiveQty == 0 {
		effectiveQty = comboQty
	}
	if effectiveQty < 1 {
		effectiveQty = 1
	}

	baseTotal, err := combo.BasePricePerPerson.MulInt(int64(effectiveQty))
	if err != nil {
		return nil, nil, wrapMoney(err)
	}

	upchargeTotal := money.Zero(currency)
	for _, ci := range selected {
		if ci.item.AdditionalCharge.IsZero() {
			continue
		}
		upcharge, err := ci.item.AdditionalCharge.MulInt(int64(guestCount))
		if err != nil {
			return nil, nil, wrapMoney(err)
		}
		if upchargeTotal, err = upchargeTotal.Add(upcharge); err != nil {
			return nil, nil, wrapMoney(err)
		}
	}

	contribution, err := baseTotal.Add(upchargeTotal)
	if err != nil {
		return nil, nil, wrapMoney(err)
	}

	lines := []BreakdownLine{{
		Label:    combo.Name,
		Quantity: effectiveQty,
		Amount:   contribution,
	}}

	// Selected category items are listed for display/audit only; their
	// standalone prices are not added into the combo contribution.
	for _, ci := range selected {
		amount, err := ci.item.Price.MulInt(int64(ci.qty))
		if err != nil {
			return nil, nil, wrapMoney(err)
		}
		lines = append(lines, BreakdownLine{
			Label:         fmt.Sprintf("%s: %s", ci.category.Name, ci.item.Name),
			Quantity:      ci.qty,
			Amount:        amount,
			Informational: true,
		})
	}

	return &contribution, lines, nil
}

// selection pairs a key with its validated quantity.
type selection struct {
	key SelectionKey
	qty int
}

// serviceSelections extracts this service's selections in a deterministic
// order and rejects negative quantities.
func serviceSelections(serviceID string, quantities Quantities) ([]selection, error) {
	var out []selection
	for key, qty := range quantities {
		if key.ServiceID != serviceID {
			continue
		}
		if qty < 0 {
			return nil, newError(ErrCodeInvalidQuantity, "negative quantity %d for %+v", qty, key)
		}
		out = append(out, selection{key: key, qty: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].key, out[j].key
		if a.ComboID != b.ComboID {
			return a.ComboID < b.ComboID
		}
		if a.CategoryID != b.CategoryID {
			return a.CategoryID < b.CategoryID
		}
		return a.ItemID < b.ItemID
	})
	return out, nil
}
