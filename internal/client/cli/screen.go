package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dimasprakoso/siakad-cli/internal/client/entity"
	"github.com/dimasprakoso/siakad-cli/internal/client/listview"
	"github.com/dimasprakoso/siakad-cli/internal/client/models"
	"github.com/dimasprakoso/siakad-cli/internal/client/query"
)

// screen is the uniform surface the REPL drives for every entity. The
// generic resourceScreen supplies the behavior; per-entity constructors
// supply only formatting and payload assembly.
type screen interface {
	desc() entity.Descriptor
	newView(pageSize int) *listview.Controller
	list(ctx context.Context, view *listview.Controller, prev *query.Key) (lines []string, page models.Page[struct{}], fetching bool, err error)
	show(ctx context.Context, id int) (string, error)
	add(ctx context.Context, a *App) error
	edit(ctx context.Context, a *App, id int) error
	deleteOp(ctx context.Context, id int) error
	upload(ctx context.Context, a *App, id int, path string) error
	invalidateList()
	invalidateDetail(id int)
	removeDetail(id int)
}

type resourceScreen[T any] struct {
	res    *entity.Resource[T]
	row    func(T) string
	detail func(T) string
	// createPayload prompts for a new record's fields.
	createPayload func(ctx context.Context, a *App) (any, error)
	// editPayload prompts for changes to cur; blank input keeps a value.
	editPayload func(ctx context.Context, a *App, cur T) (any, error)
}

func (s *resourceScreen[T]) desc() entity.Descriptor { return s.res.Descriptor() }

func (s *resourceScreen[T]) newView(pageSize int) *listview.Controller {
	return s.res.NewListController(pageSize)
}

func (s *resourceScreen[T]) list(ctx context.Context, view *listview.Controller, prev *query.Key) ([]string, models.Page[struct{}], bool, error) {
	res, err := s.res.List(ctx, view, prev)
	if err != nil {
		return nil, models.Page[struct{}]{}, false, err
	}
	lines := make([]string, 0, len(res.Page.Items))
	for _, item := range res.Page.Items {
		lines = append(lines, s.row(item))
	}
	meta := models.Page[struct{}]{
		TotalCount:  res.Page.TotalCount,
		CurrentPage: res.Page.CurrentPage,
		TotalPages:  res.Page.TotalPages,
	}
	return lines, meta, res.IsFetching, nil
}

func (s *resourceScreen[T]) show(ctx context.Context, id int) (string, error) {
	item, err := s.res.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.detail(item), nil
}

func (s *resourceScreen[T]) add(ctx context.Context, a *App) error {
	if s.createPayload == nil {
		return fmt.Errorf("%s is read-only", s.desc().Title)
	}
	payload, err := s.createPayload(ctx, a)
	if err != nil {
		return err
	}
	created, err := s.res.Create(ctx, payload)
	if err != nil {
		return err
	}
	s.res.InvalidateList()
	fmt.Fprintf(a.out, "Created: %s\n", s.row(created))
	return nil
}

func (s *resourceScreen[T]) edit(ctx context.Context, a *App, id int) error {
	if s.editPayload == nil {
		return fmt.Errorf("%s is read-only", s.desc().Title)
	}
	cur, err := s.res.Get(ctx, id)
	if err != nil {
		return err
	}
	payload, err := s.editPayload(ctx, a, cur)
	if err != nil {
		return err
	}
	updated, err := s.res.Update(ctx, id, payload)
	if err != nil {
		return err
	}
	s.res.InvalidateList()
	s.res.InvalidateDetail(id)
	fmt.Fprintf(a.out, "Updated: %s\n", s.row(updated))
	return nil
}

func (s *resourceScreen[T]) deleteOp(ctx context.Context, id int) error {
	return s.res.Delete(ctx, id)
}

func (s *resourceScreen[T]) upload(ctx context.Context, a *App, id int, path string) error {
	return uploadFile(ctx, a, s.res, id, path)
}

func (s *resourceScreen[T]) invalidateList()         { s.res.InvalidateList() }
func (s *resourceScreen[T]) invalidateDetail(id int) { s.res.InvalidateDetail(id) }
func (s *resourceScreen[T]) removeDetail(id int)     { s.res.RemoveDetail(id) }

// --- per-entity wiring ---

func newStudentScreen(students *entity.Resource[models.Student], prodi *entity.Resource[models.Prodi]) screen {
	s := &resourceScreen[models.Student]{res: students}
	s.row = func(m models.Student) string {
		prodiName := "-"
		if m.Prodi != nil {
			prodiName = m.Prodi.NamaProdi
		}
		return fmt.Sprintf("#%d  %-25s NIM %-12s %s", m.ID, m.Nama, m.NIM, prodiName)
	}
	s.detail = func(m models.Student) string {
		var b strings.Builder
		fmt.Fprintf(&b, "Mahasiswa #%d\n  Nama : %s\n  NIM  : %s\n", m.ID, m.Nama, m.NIM)
		if m.Prodi != nil {
			fmt.Fprintf(&b, "  Prodi: %s (%s)\n", m.Prodi.NamaProdi, m.Prodi.Fakultas)
		}
		if m.Alamat != nil {
			fmt.Fprintf(&b, "  Alamat: %s, %s, %s %s\n", m.Alamat.Jalan, m.Alamat.Kota, m.Alamat.Provinsi, m.Alamat.KodePos)
		}
		if m.Foto != "" {
			fmt.Fprintf(&b, "  Foto : %s\n", m.Foto)
		}
		return b.String()
	}
	s.createPayload = func(ctx context.Context, a *App) (any, error) {
		if err := printProdiOptions(ctx, a, prodi); err != nil {
			return nil, err
		}
		values, err := a.collectInput(entity.Students.Fields)
		if err != nil {
			return nil, err
		}
		if err := entity.Students.ValidateInput(values); err != nil {
			return nil, err
		}
		prodiID, err := strconv.Atoi(values["prodi_id"])
		if err != nil {
			return nil, fmt.Errorf("prodi harus berupa angka: %w", err)
		}
		return map[string]any{
			"nama":     values["nama"],
			"nim":      values["nim"],
			"prodi_id": prodiID,
			"alamat": models.Alamat{
				Jalan:    values["jalan"],
				Kota:     values["kota"],
				Provinsi: values["provinsi"],
				KodePos:  values["kode_pos"],
			},
		}, nil
	}
	s.editPayload = func(ctx context.Context, a *App, cur models.Student) (any, error) {
		fmt.Fprintf(a.out, "Editing #%d (%s). Kosongkan untuk mempertahankan nilai.\n", cur.ID, cur.Nama)
		values, err := a.collectInput(entity.Students.Fields)
		if err != nil {
			return nil, err
		}
		patch := map[string]any{}
		if v := values["nama"]; v != "" {
			patch["nama"] = v
		}
		if v := values["nim"]; v != "" {
			patch["nim"] = v
		}
		if v := values["prodi_id"]; v != "" {
			prodiID, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("prodi harus berupa angka: %w", err)
			}
			patch["prodi_id"] = prodiID
		}
		alamat := map[string]any{}
		for name, key := range map[string]string{"jalan": "jalan", "kota": "kota", "provinsi": "provinsi", "kode_pos": "kode_pos"} {
			if v := values[name]; v != "" {
				alamat[key] = v
			}
		}
		if len(alamat) > 0 {
			patch["alamat"] = alamat
		}
		return patch, nil
	}
	return s
}

func newProdiScreen(prodi *entity.Resource[models.Prodi]) screen {
	return &resourceScreen[models.Prodi]{
		res: prodi,
		row: func(p models.Prodi) string {
			return fmt.Sprintf("#%d  %-30s %s", p.ID, p.NamaProdi, p.Fakultas)
		},
		detail: func(p models.Prodi) string {
			return fmt.Sprintf("Prodi #%d\n  Nama    : %s\n  Fakultas: %s\n", p.ID, p.NamaProdi, p.Fakultas)
		},
	}
}

func newPostScreen(posts *entity.Resource[models.Post]) screen {
	s := &resourceScreen[models.Post]{res: posts}
	s.row = func(p models.Post) string {
		return fmt.Sprintf("#%d  %-40s %s", p.ID, p.Title, snippet(p.Content, 60))
	}
	s.detail = func(p models.Post) string {
		out := fmt.Sprintf("Posting #%d: %s\n\n%s\n", p.ID, p.Title, p.Content)
		if p.ImageURL != "" {
			out += fmt.Sprintf("\nImage: %s\n", p.ImageURL)
		}
		return out
	}
	s.createPayload = contentPayload(entity.Posts, func(values map[string]string) any {
		return map[string]any{"title": values["title"], "content": values["content"], "imageUrl": values["imageUrl"]}
	})
	s.editPayload = func(ctx context.Context, a *App, cur models.Post) (any, error) {
		return promptContentEdit(a, entity.Posts, map[string]string{
			"title": cur.Title, "content": cur.Content, "imageUrl": cur.ImageURL,
		})
	}
	return s
}

func newRecipeScreen(recipes *entity.Resource[models.Recipe]) screen {
	s := &resourceScreen[models.Recipe]{res: recipes}
	s.row = func(r models.Recipe) string {
		return fmt.Sprintf("#%d  %-35s prep %dm cook %dm", r.ID, r.Name, r.PrepTime, r.CookTime)
	}
	s.detail = func(r models.Recipe) string {
		out := fmt.Sprintf("Recipe #%d: %s\n\n%s\n\nPrep: %d minutes, Cook: %d minutes\n", r.ID, r.Name, r.Description, r.PrepTime, r.CookTime)
		if r.ImageURL != "" {
			out += fmt.Sprintf("Image: %s\n", r.ImageURL)
		}
		return out
	}
	s.createPayload = contentPayload(entity.Recipes, func(values map[string]string) any {
		prep, _ := strconv.Atoi(values["prepTime"])
		cook, _ := strconv.Atoi(values["cookTime"])
		return map[string]any{
			"name": values["name"], "description": values["description"],
			"prepTime": prep, "cookTime": cook, "imageUrl": values["imageUrl"],
		}
	})
	s.editPayload = func(ctx context.Context, a *App, cur models.Recipe) (any, error) {
		return promptContentEdit(a, entity.Recipes, map[string]string{
			"name": cur.Name, "description": cur.Description,
			"prepTime": strconv.Itoa(cur.PrepTime), "cookTime": strconv.Itoa(cur.CookTime),
			"imageUrl": cur.ImageURL,
		})
	}
	return s
}

func newNoteScreen(notes *entity.Resource[models.Note]) screen {
	s := &resourceScreen[models.Note]{res: notes}
	s.row = func(n models.Note) string {
		return fmt.Sprintf("#%d  %-40s %s", n.ID, n.Title, snippet(n.Content, 60))
	}
	s.detail = func(n models.Note) string {
		return fmt.Sprintf("Note #%d: %s\n\n%s\n", n.ID, n.Title, n.Content)
	}
	s.createPayload = contentPayload(entity.Notes, func(values map[string]string) any {
		return map[string]any{"title": values["title"], "content": values["content"]}
	})
	s.editPayload = func(ctx context.Context, a *App, cur models.Note) (any, error) {
		return promptContentEdit(a, entity.Notes, map[string]string{
			"title": cur.Title, "content": cur.Content,
		})
	}
	return s
}

// contentPayload builds a create-prompt for flat field sets.
func contentPayload(desc entity.Descriptor, assemble func(map[string]string) any) func(context.Context, *App) (any, error) {
	return func(ctx context.Context, a *App) (any, error) {
		values, err := a.collectInput(desc.Fields)
		if err != nil {
			return nil, err
		}
		if err := desc.ValidateInput(values); err != nil {
			return nil, err
		}
		return assemble(values), nil
	}
}

// promptContentEdit prompts for every field, keeping the current value on
// blank input, and returns the full replacement object (these entities
// update via PUT).
func promptContentEdit(a *App, desc entity.Descriptor, current map[string]string) (any, error) {
	fmt.Fprintln(a.out, "Kosongkan untuk mempertahankan nilai.")
	values, err := a.collectInput(desc.Fields)
	if err != nil {
		return nil, err
	}
	merged := map[string]any{}
	for name, cur := range current {
		v := values[name]
		if v == "" {
			v = cur
		}
		switch name {
		case "prepTime", "cookTime":
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("%s harus berupa angka: %w", name, err)
			}
			merged[name] = n
		default:
			merged[name] = v
		}
	}
	return merged, nil
}

func printProdiOptions(ctx context.Context, a *App, prodi *entity.Resource[models.Prodi]) error {
	view := prodi.NewListController(100)
	res, err := prodi.List(ctx, view, nil)
	if err != nil {
		return fmt.Errorf("memuat daftar prodi: %w", err)
	}
	fmt.Fprintln(a.out, "Prodi tersedia:")
	for _, p := range res.Page.Items {
		fmt.Fprintf(a.out, "  %d: %s (%s)\n", p.ID, p.NamaProdi, p.Fakultas)
	}
	return nil
}

// snippet truncates to max runes, not bytes, so multi-byte content is never
// cut mid-rune.
func snippet(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
