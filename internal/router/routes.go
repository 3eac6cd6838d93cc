package router

import "net/http"

// routeTable returns every route in match order. Legacy /api paths from the
// desktop shell map onto the same handlers.
func routeTable() []route {
	return []route{
		{http.MethodGet, "/students", searchStudents},
		{http.MethodGet, "/students/{id}", getStudent},
		{http.MethodPost, "/students", addStudent},
		{http.MethodPut, "/students/{id}", updateStudent},
		{http.MethodDelete, "/students/{id}", deleteStudent},
		{http.MethodPost, "/students/{id}/bulk-flag", bulkSetFlag},
		{http.MethodPost, "/students/{id}/bulk-comment", bulkSetComment},

		{http.MethodGet, "/subject-groups", searchGroups},
		{http.MethodGet, "/subject-groups/{name...}", getGroupDetails},
		{http.MethodGet, "/group-members/{name...}", listGroupMembers},

		{http.MethodPost, "/accommodations", addAccommodation},
		{http.MethodPut, "/accommodations/{id}", updateAccommodation},
		{http.MethodDelete, "/accommodations/{id}", deleteAccommodation},

		{http.MethodDelete, "/all-data", wipeAll},
		{http.MethodPost, "/import", importWorkbook},

		// Desktop shell paths.
		{http.MethodGet, "/api/elever", searchStudents},
		{http.MethodGet, "/api/elever/{id}", getStudent},
		{http.MethodPost, "/api/elever", addStudent},
		{http.MethodPut, "/api/elever/{id}", updateStudent},
		{http.MethodDelete, "/api/elever/{id}", deleteStudent},
		{http.MethodPost, "/api/elever/{id}/bulk-update-tilrettelegginger", bulkSetFlag},
		{http.MethodPost, "/api/elever/{id}/bulk-update-kommentar", bulkSetComment},
		{http.MethodGet, "/api/faggrupper", searchGroups},
		{http.MethodGet, "/api/faggrupper/{name...}", getGroupDetails},
		{http.MethodGet, "/api/faggruppe/{name...}", listGroupMembers},
		{http.MethodPost, "/api/tilrettelegging", addAccommodation},
		{http.MethodPut, "/api/tilrettelegging/{id}", updateAccommodation},
		{http.MethodDelete, "/api/tilrettelegging/{id}", deleteAccommodation},
		{http.MethodDelete, "/api/database/all-data", wipeAll},
	}
}
