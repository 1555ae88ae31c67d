package entity

// Process IDs, in pipeline order.
const (
	ProcessWarehouseIn  = "warehouse_in"
	ProcessSanding      = "sanding"
	ProcessAssembly     = "assembly"
	ProcessColoring     = "coloring"
	ProcessAccessories  = "accessories"
	ProcessWelding      = "welding"
	ProcessInspection   = "inspection"
	ProcessCoating      = "coating"
	ProcessPackaging    = "packaging"
	ProcessWarehouseOut = "warehouse_out"
)

// ProductionProcess is one step of the fixed production pipeline.
type ProductionProcess struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Optional bool   `json:"optional,omitempty"`
}

// ProcessCatalog is the production pipeline in execution order. Accessories
// and welding apply only to orders that request them; every other step applies
// to every order.
var ProcessCatalog = []ProductionProcess{
	{ID: ProcessWarehouseIn, Name: "Gudang Masuk"},
	{ID: ProcessSanding, Name: "Amplas"},
	{ID: ProcessAssembly, Name: "Perakitan"},
	{ID: ProcessColoring, Name: "Pewarnaan"},
	{ID: ProcessAccessories, Name: "Aksesoris", Optional: true},
	{ID: ProcessWelding, Name: "Las", Optional: true},
	{ID: ProcessInspection, Name: "Inspeksi"},
	{ID: ProcessCoating, Name: "Pelapisan"},
	{ID: ProcessPackaging, Name: "Packaging & Kode"},
	{ID: ProcessWarehouseOut, Name: "Gudang Akhir"},
}

// ProcessName returns the display name for a process id, falling back to the
// id itself for unknown processes.
func ProcessName(catalog []ProductionProcess, id string) string {
	for _, p := range catalog {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}
