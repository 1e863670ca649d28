package entity

import (
	"net/http"

	"github.com/dimasprakoso/siakad-cli/internal/client/models"
)

// Students is the "mahasiswa" entity: server-side pagination and search,
// PATCH updates, photo upload, and admin-only mutations.
var Students = Descriptor{
	Name:           "mahasiswa",
	Title:          "mahasiswa",
	BasePath:       "/data/mahasiswa",
	ListShape:      ListPaginated,
	UpdateMethod:   http.MethodPatch,
	MutateRole:     models.RoleAdmin,
	SupportsUpload: true,
	UploadField:    "foto",
	Fields: []Field{
		{Name: "nama", Label: "Nama", Kind: FieldText, Required: true},
		{Name: "nim", Label: "NIM", Kind: FieldText, Required: true},
		{Name: "prodi_id", Label: "Prodi", Kind: FieldInt, Required: true},
		{Name: "jalan", Label: "Jalan", Kind: FieldText, Required: true},
		{Name: "kota", Label: "Kota", Kind: FieldText, Required: true},
		{Name: "provinsi", Label: "Provinsi", Kind: FieldText, Required: true},
		{Name: "kode_pos", Label: "Kode Pos", Kind: FieldText, Required: true},
	},
}

// ProdiLookup is the read-only study-program list backing the student
// filter dropdown.
var ProdiLookup = Descriptor{
	Name:      "prodi",
	Title:     "prodi",
	BasePath:  "/data/prodi",
	ListShape: ListArray,
}

var Posts = Descriptor{
	Name:      "posting",
	Title:     "posting",
	BasePath:  "/api/postings",
	ListShape: ListArray,
	Fields: []Field{
		{Name: "title", Label: "Title", Kind: FieldText, Required: true},
		{Name: "content", Label: "Content", Kind: FieldMultiline, Required: true},
		{Name: "imageUrl", Label: "Image URL", Kind: FieldText},
	},
}

var Recipes = Descriptor{
	Name:      "recipe",
	Title:     "recipe",
	BasePath:  "/api/recipes",
	ListShape: ListArray,
	Fields: []Field{
		{Name: "name", Label: "Name", Kind: FieldText, Required: true},
		{Name: "description", Label: "Description", Kind: FieldMultiline, Required: true},
		{Name: "prepTime", Label: "Prep time (minutes)", Kind: FieldInt, Required: true},
		{Name: "cookTime", Label: "Cook time (minutes)", Kind: FieldInt, Required: true},
		{Name: "imageUrl", Label: "Image URL", Kind: FieldText},
	},
}

var Notes = Descriptor{
	Name:      "note",
	Title:     "note",
	BasePath:  "/api/note",
	ListShape: ListArray,
	Fields: []Field{
		{Name: "title", Label: "Title", Kind: FieldText, Required: true},
		{Name: "content", Label: "Content", Kind: FieldMultiline, Required: true},
	},
}
