package sim

// Unlimited marks a weapon stack that is never decremented.
const Unlimited = -1

// Category groups weapons for the shop screen.
type Category string

const (
	CategoryBasic   Category = "basic"
	CategoryNuclear Category = "nuclear"
	CategorySpecial Category = "special"
	CategoryCluster Category = "cluster"
	CategoryNapalm  Category = "napalm"
	CategoryTracer  Category = "tracer"
	CategoryRoller  Category = "roller"
	CategoryRiot    Category = "riot"
	CategoryDigger  Category = "digger"
	CategoryExtract Category = "extractor"
)

// BehaviorKind is the tag of a Behavior variant.
type BehaviorKind string

const (
	KindStandard   BehaviorKind = "standard"
	KindBouncing   BehaviorKind = "bouncing"
	KindSplitting  BehaviorKind = "splitting"
	KindRolling    BehaviorKind = "rolling"
	KindTracer     BehaviorKind = "tracer"
	KindNapalm     BehaviorKind = "napalm"
	KindDigging    BehaviorKind = "digging"
	KindExtracting BehaviorKind = "extracting"
)

// Behavior decides what a projectile does when it lands. It is a closed sum
// type: the resolver switches over the concrete variants below.
type Behavior interface {
	Kind() BehaviorKind
	sealed()
}

// Standard explodes, craters the ground and deals area damage.
type Standard struct{}

// Bouncing reflects off the ground Bounces times before exploding.
type Bouncing struct{ Bounces int }

// Splitting breaks into Count standard sub-projectiles on landing.
type Splitting struct{ Count int }

// Rolling rolls along the surface at Speed until it settles in a trough.
type Rolling struct{ Speed float64 }

// Tracer only records its flight path.
type Tracer struct{}

// Napalm spills BurnDuration burning particles that flow downhill.
type Napalm struct{ BurnDuration int }

// Digging carves a vertical shaft Depth deep.
type Digging struct{ Depth float64 }

// Extracting tries to deploy a resource extractor for Material on landing.
type Extracting struct {
	Material    Material
	SuccessRate float64
}

func (Standard) Kind() BehaviorKind   { return KindStandard }
func (Bouncing) Kind() BehaviorKind   { return KindBouncing }
func (Splitting) Kind() BehaviorKind  { return KindSplitting }
func (Rolling) Kind() BehaviorKind    { return KindRolling }
func (Tracer) Kind() BehaviorKind     { return KindTracer }
func (Napalm) Kind() BehaviorKind     { return KindNapalm }
func (Digging) Kind() BehaviorKind    { return KindDigging }
func (Extracting) Kind() BehaviorKind { return KindExtracting }

func (Standard) sealed()   {}
func (Bouncing) sealed()   {}
func (Splitting) sealed()  {}
func (Rolling) sealed()    {}
func (Tracer) sealed()     {}
func (Napalm) sealed()     {}
func (Digging) sealed()    {}
func (Extracting) sealed() {}

// Weapon is a catalog template or an owned stack. Behavior variants are
// plain values, so copying a Weapon never shares state with the catalog.
type Weapon struct {
	ID          string
	Name        string
	Damage      float64
	Radius      float64
	Price       int
	Quantity    int
	Category    Category
	Description string
	Behavior    Behavior
}

// IsUnlimited reports whether the stack is never decremented.
func (w Weapon) IsUnlimited() bool { return w.Quantity == Unlimited }

// CanFire reports whether a shot may be launched from this stack.
// Free weapons can always be fired.
func (w Weapon) CanFire() bool {
	return w.Price == 0 || w.IsUnlimited() || w.Quantity > 0
}

// consume decrements a paid, finite stack.
func (w *Weapon) consume() {
	if w.Price > 0 && !w.IsUnlimited() && w.Quantity > 0 {
		w.Quantity--
	}
}

// asStandard returns a copy whose terminal behaviour is a plain explosion.
func (w Weapon) asStandard() Weapon {
	w.Behavior = Standard{}
	return w
}

// kind returns the behaviour tag, treating a missing behaviour as standard.
func (w Weapon) kind() BehaviorKind {
	if w.Behavior == nil {
		return KindStandard
	}
	return w.Behavior.Kind()
}

// ShopItem is a defensive or utility consumable.
type ShopItem struct {
	ID    string
	Name  string
	Price int
}

const (
	ItemShield    = "shield"
	ItemParachute = "parachute"
	ItemFuel      = "fuel"
)

// ShopItems lists the consumables on sale.
var ShopItems = []ShopItem{
	{ID: ItemShield, Name: "Shield", Price: 200},
	{ID: ItemParachute, Name: "Parachute", Price: 100},
	{ID: ItemFuel, Name: "Fuel", Price: 50},
}

// stackPurchase is how many rounds one purchase adds.
const stackPurchase = 5

// DefaultCatalog returns a fresh copy of the built-in weapon catalog.
func DefaultCatalog() []Weapon {
	return []Weapon{
		{ID: "baby-missile", Name: "Baby Missile", Damage: 15, Radius: 20, Price: 0, Quantity: Unlimited, Category: CategoryBasic, Description: "Basic low-power projectile", Behavior: Standard{}},
		{ID: "missile", Name: "Missile", Damage: 30, Radius: 35, Price: 50, Category: CategoryBasic, Description: "Standard all-purpose weapon", Behavior: Standard{}},

		{ID: "baby-nuke", Name: "Baby Nuke", Damage: 50, Radius: 55, Price: 250, Category: CategoryNuclear, Description: "Miniature nuclear blast", Behavior: Standard{}},
		{ID: "nuke", Name: "Nuke", Damage: 80, Radius: 85, Price: 500, Category: CategoryNuclear, Description: "Massive devastating explosion", Behavior: Standard{}},
		{ID: "deaths-head", Name: "Death's Head", Damage: 100, Radius: 120, Price: 1500, Category: CategoryNuclear, Description: "Ultimate superweapon", Behavior: Standard{}},

		{ID: "leapfrog", Name: "LeapFrog", Damage: 25, Radius: 28, Price: 150, Category: CategorySpecial, Description: "Bounces before exploding", Behavior: Bouncing{Bounces: 3}},

		{ID: "mirv", Name: "MIRV", Damage: 20, Radius: 25, Price: 400, Category: CategoryCluster, Description: "Splits into multiple missiles", Behavior: Splitting{Count: 5}},
		{ID: "funky-bomb", Name: "Funky Bomb", Damage: 15, Radius: 20, Price: 350, Category: CategoryCluster, Description: "Chaotic scattered explosions", Behavior: Splitting{Count: 8}},

		{ID: "napalm", Name: "Napalm", Damage: 25, Radius: 40, Price: 200, Category: CategoryNapalm, Description: "Burns and flows downhill", Behavior: Napalm{BurnDuration: 60}},
		{ID: "hot-napalm", Name: "Hot Napalm", Damage: 40, Radius: 55, Price: 400, Category: CategoryNapalm, Description: "Intense burning flames", Behavior: Napalm{BurnDuration: 90}},

		{ID: "tracer", Name: "Tracer", Damage: 0, Radius: 0, Price: 10, Category: CategoryTracer, Description: "Shows trajectory, no damage", Behavior: Tracer{}},
		{ID: "smoke-tracer", Name: "Smoke Tracer", Damage: 0, Radius: 0, Price: 15, Category: CategoryTracer, Description: "Thick visible smoke trail", Behavior: Tracer{}},

		{ID: "baby-roller", Name: "Baby Roller", Damage: 20, Radius: 25, Price: 75, Category: CategoryRoller, Description: "Small rolling bomb", Behavior: Rolling{Speed: 2}},
		{ID: "roller", Name: "Roller", Damage: 35, Radius: 35, Price: 150, Category: CategoryRoller, Description: "Rolls into valleys", Behavior: Rolling{Speed: 3}},
		{ID: "heavy-roller", Name: "Heavy Roller", Damage: 50, Radius: 50, Price: 300, Category: CategoryRoller, Description: "Powerful rolling bomb", Behavior: Rolling{Speed: 4}},

		{ID: "riot-charge", Name: "Riot Charge", Damage: 35, Radius: 28, Price: 100, Category: CategoryRiot, Description: "Compact high-damage shell", Behavior: Standard{}},
		{ID: "riot-blast", Name: "Riot Blast", Damage: 45, Radius: 38, Price: 175, Category: CategoryRiot, Description: "Larger riot explosive", Behavior: Standard{}},
		{ID: "riot-bomb", Name: "Riot Bomb", Damage: 55, Radius: 48, Price: 275, Category: CategoryRiot, Description: "High-damage blast", Behavior: Standard{}},
		{ID: "heavy-riot-bomb", Name: "Heavy Riot Bomb", Damage: 70, Radius: 60, Price: 450, Category: CategoryRiot, Description: "Maximum riot damage", Behavior: Standard{}},

		{ID: "baby-digger", Name: "Baby Digger", Damage: 5, Radius: 15, Price: 50, Category: CategoryDigger, Description: "Small terrain removal", Behavior: Digging{Depth: 50}},
		{ID: "digger", Name: "Digger", Damage: 10, Radius: 22, Price: 125, Category: CategoryDigger, Description: "Carves vertical shafts", Behavior: Digging{Depth: 100}},
	}
}

// ExtractorCatalog returns the campaign-only extractor launchers.
func ExtractorCatalog() []Weapon {
	return []Weapon{
		{ID: "iron-extractor", Name: "Iron Extractor", Radius: 15, Price: 0, Quantity: Unlimited, Category: CategoryExtract, Description: "Deploys an iron extractor", Behavior: Extracting{Material: MaterialIron, SuccessRate: defaultExtractorSuccess}},
		{ID: "copper-extractor", Name: "Copper Extractor", Radius: 15, Price: 0, Quantity: Unlimited, Category: CategoryExtract, Description: "Deploys a copper extractor", Behavior: Extracting{Material: MaterialCopper, SuccessRate: defaultExtractorSuccess}},
		{ID: "oil-extractor", Name: "Oil Extractor", Radius: 15, Price: 0, Quantity: Unlimited, Category: CategoryExtract, Description: "Deploys an oil pump", Behavior: Extracting{Material: MaterialOil, SuccessRate: defaultExtractorSuccess}},
	}
}

// findWeapon returns the index of id in ws, or -1.
func findWeapon(ws []Weapon, id string) int {
	for i, w := range ws {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func findItem(id string) (ShopItem, bool) {
	for _, it := range ShopItems {
		if it.ID == id {
			return it, true
		}
	}
	return ShopItem{}, false
}
