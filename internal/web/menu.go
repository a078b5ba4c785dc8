package web

// MenuItem is one sidebar entry.
type MenuItem struct {
	Key    string
	Label  string
	Path   string
	Active bool
}

// Page keys, in sidebar order.
const (
	PageDashboard     = "dashboard"
	PageProcesses     = "processos"
	PageItems         = "itens"
	PageReports       = "relatorios"
	PageConfiguration = "configuracoes"
)

var menu = []MenuItem{
	{Key: PageDashboard, Label: "Dashboard"},
	{Key: PageProcesses, Label: "Processos"},
	{Key: PageItems, Label: "Itens"},
	{Key: PageReports, Label: "Relatórios"},
	{Key: PageConfiguration, Label: "Configurações"},
}

// Menu returns the sidebar with active marked.
func Menu(active string) []MenuItem {
	items := make([]MenuItem, len(menu))
	for i, item := range menu {
		item.Path = "/" + item.Key
		item.Active = item.Key == active
		items[i] = item
	}
	return items
}

// PageLabel returns the label of a menu page and whether it exists.
func PageLabel(key string) (string, bool) {
	for _, item := range menu {
		if item.Key == key {
			return item.Label, true
		}
	}
	return "", false
}
