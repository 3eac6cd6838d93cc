package router

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// Request bodies.
type (
	studentBody struct {
		Name  string `json:"navn" validate:"required"`
		Class string `json:"klasse"`
	}

	bulkFlagBody struct {
		Field string    `json:"field" validate:"required"`
		Value types.Bit `json:"value"`
	}

	bulkCommentBody struct {
		Comment string `json:"kommentar"`
	}

	importBody struct {
		Path string `json:"path" validate:"required"`
	}
)

// Result shapes for mutations.
type (
	createdStudent struct {
		ID int64 `json:"id"`
		types.Student
	}

	createdID struct {
		ID int64 `json:"id"`
	}

	changes struct {
		Changes int64 `json:"changes"`
	}

	wipeResult struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
)

// call carries the inputs of one matched request.
type call struct {
	path  map[string]string
	query map[string]string
	body  []byte
	v     *validator.Validate
}

// id parses a positive integer path parameter.
func (c *call) id(name string) (int64, error) {
	raw := c.path[name]
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, raw)
	}
	return n, nil
}

// search returns the search term, read from "search" with "sok" as fallback.
func (c *call) search() string {
	if v, ok := c.query["search"]; ok {
		return v
	}
	return c.query["sok"]
}

func searchStudents(r *Router, c *call) (any, error) {
	return r.store.SearchStudents(c.search())
}

func searchGroups(r *Router, c *call) (any, error) {
	return r.store.SearchGroups(c.search())
}

func getStudent(r *Router, c *call) (any, error) {
	id, err := c.id("id")
	if err != nil {
		return nil, err
	}
	return r.store.GetStudent(id)
}

func getGroupDetails(r *Router, c *call) (any, error) {
	return r.store.GetGroupDetails(c.path["name"])
}

func listGroupMembers(r *Router, c *call) (any, error) {
	return r.store.ListGroupMembers(c.path["name"])
}

func addStudent(r *Router, c *call) (any, error) {
	var body studentBody
	if err := c.decode(&body); err != nil {
		return nil, err
	}
	s, err := r.store.AddStudent(body.Name, body.Class)
	if err != nil {
		return nil, err
	}
	return createdStudent{ID: s.ID, Student: *s}, nil
}

func updateStudent(r *Router, c *call) (any, error) {
	id, err := c.id("id")
	if err != nil {
		return nil, err
	}
	var body studentBody
	if err := c.decode(&body); err != nil {
		return nil, err
	}
	n, err := r.store.UpdateStudent(id, body.Name, body.Class)
	if err != nil {
		return nil, err
	}
	return changes{n}, nil
}

func deleteStudent(r *Router, c *call) (any, error) {
	id, err := c.id("id")
	if err != nil {
		return nil, err
	}
	n, err := r.store.DeleteStudent(id)
	if err != nil {
		return nil, err
	}
	return changes{n}, nil
}

func addAccommodation(r *Router, c *call) (any, error) {
	var body types.NewAccommodation
	if err := c.decode(&body); err != nil {
		return nil, err
	}
	id, err := r.store.AddAccommodation(body)
	if err != nil {
		return nil, err
	}
	return createdID{id}, nil
}

func updateAccommodation(r *Router, c *call) (any, error) {
	id, err := c.id("id")
	if err != nil {
		return nil, err
	}
	var body types.AccommodationUpdate
	if err := c.decode(&body); err != nil {
		return nil, err
	}
	n, err := r.store.UpdateAccommodation(id, body)
	if err != nil {
		return nil, err
	}
	return changes{n}, nil
}

func deleteAccommodation(r *Router, c *call) (any, error) {
	id, err := c.id("id")
	if err != nil {
		return nil, err
	}
	n, err := r.store.DeleteAccommodation(id)
	if err != nil {
		return nil, err
	}
	return changes{n}, nil
}

func bulkSetFlag(r *Router, c *call) (any, error) {
	id, err := c.id("id")
	if err != nil {
		return nil, err
	}
	var body bulkFlagBody
	if err := c.decode(&body); err != nil {
		return nil, err
	}
	flag, err := types.ParseFlag(body.Field)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, body.Field)
	}
	n, err := r.store.BulkSetFlag(id, flag, bool(body.Value))
	if err != nil {
		return nil, err
	}
	return changes{n}, nil
}

func bulkSetComment(r *Router, c *call) (any, error) {
	id, err := c.id("id")
	if err != nil {
		return nil, err
	}
	var body bulkCommentBody
	if err := c.decode(&body); err != nil {
		return nil, err
	}
	n, err := r.store.BulkSetComment(id, body.Comment)
	if err != nil {
		return nil, err
	}
	return changes{n}, nil
}

func wipeAll(r *Router, _ *call) (any, error) {
	if err := r.store.WipeAll(); err != nil {
		return nil, err
	}
	return wipeResult{Success: true, Message: "all student data deleted"}, nil
}

func importWorkbook(r *Router, c *call) (any, error) {
	var body importBody
	if err := c.decode(&body); err != nil {
		return nil, err
	}
	return r.store.ImportWorkbook(body.Path)
}
