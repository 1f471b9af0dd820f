package i18n

// Supported language identifiers.
const (
	Spanish = "es"
	English = "en"
	French  = "fr"
)

// DefaultLanguage is used when no preference is stored and for any
// unsupported language.
const DefaultLanguage = Spanish

// supported lists the languages in menu order.
var supported = []string{Spanish, English, French}

// flags are shown next to each language in the language menu.
var flags = map[string]string{
	Spanish: "🇪🇸",
	English: "🇬🇧",
	French:  "🇫🇷",
}

// unknownFlag is shown for a language without a flag.
const unknownFlag = "🌐"

// tables holds the translation table per language.
var tables = map[string]map[string]string{
	Spanish: {
		// Sidebar
		"filters":           "Filtros",
		"searchPlaceholder": "Buscar informes...",
		"lastUpdate":        "Última Actualización",
		"all":               "Todo",
		"last3days":         "Últimos 3 días",
		"lastWeek":          "Última semana",
		"lastMonth":         "Último mes",
		"source":            "Fuente",
		"showMore":          "Mostrar más",
		"categories":        "Categorías",

		"reports": "Informes",

		"sourceLabel":    "Fuente:",
		"viewFullReport": "Ver informe completo",

		"noReportsFound":       "No se encontraron informes",
		"noReportsDescription": "Intenta ajustar los filtros",
		"errorLoadingReports":  "Error al cargar informes",
		"errorMessage":         "No se pudieron cargar los informes. Asegúrate de que la carpeta \"reports\" existe.",

		"today":     "Hoy",
		"yesterday": "Ayer",
		"daysAgo":   "Hace {0} días",
		"weeksAgo":  "Hace {0} semanas",
		"monthsAgo": "Hace {0} meses",

		"changeTheme":    "Cambiar tema",
		"changeLanguage": "Cambiar idioma",
	},
	English: {
		"filters":           "Filters",
		"searchPlaceholder": "Search reports...",
		"lastUpdate":        "Last Update",
		"all":               "All",
		"last3days":         "Last 3 days",
		"lastWeek":          "Last week",
		"lastMonth":         "Last month",
		"source":            "Source",
		"showMore":          "Show more",
		"categories":        "Categories",

		"reports": "Reports",

		"sourceLabel":    "Source:",
		"viewFullReport": "View full report",

		"noReportsFound":       "No reports found",
		"noReportsDescription": "Try adjusting the filters",
		"errorLoadingReports":  "Error loading reports",
		"errorMessage":         "Could not load reports. Make sure the \"reports\" folder exists.",

		"today":     "Today",
		"yesterday": "Yesterday",
		"daysAgo":   "{0} days ago",
		"weeksAgo":  "{0} weeks ago",
		"monthsAgo": "{0} months ago",

		"changeTheme":    "Change theme",
		"changeLanguage": "Change language",
	},
	French: {
		"filters":           "Filtres",
		"searchPlaceholder": "Rechercher des rapports...",
		"lastUpdate":        "Dernière mise à jour",
		"all":               "Tous",
		"last3days":         "3 derniers jours",
		"lastWeek":          "Dernière semaine",
		"lastMonth":         "Dernier mois",
		"source":            "Source",
		"showMore":          "Afficher plus",
		"categories":        "Catégories",

		"reports": "Rapports",

		"sourceLabel":    "Source:",
		"viewFullReport": "Voir le rapport complet",

		"noReportsFound":       "Aucun rapport trouvé",
		"noReportsDescription": "Essayez d'ajuster les filtres",
		"errorLoadingReports":  "Erreur de chargement",
		"errorMessage":         "Impossible de charger les rapports. Assurez-vous que le dossier \"reports\" existe.",

		"today":     "Aujourd'hui",
		"yesterday": "Hier",
		"daysAgo":   "Il y a {0} jours",
		"weeksAgo":  "Il y a {0} semaines",
		"monthsAgo": "Il y a {0} mois",

		"changeTheme":    "Changer le thème",
		"changeLanguage": "Changer la langue",
	},
}
