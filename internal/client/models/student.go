package models

// Prodi is a study program, used as a read-only lookup and as the student
// list filter dimension.
type Prodi struct {
	ID        int    `json:"id"`
	NamaProdi string `json:"nama_prodi"`
	Fakultas  string `json:"fakultas"`
}

// Alamat is a student's address record.
type Alamat struct {
	ID       int    `json:"id,omitempty"`
	Jalan    string `json:"jalan"`
	Kota     string `json:"kota"`
	Provinsi string `json:"provinsi"`
	KodePos  string `json:"kode_pos"`
}

// Student is a "mahasiswa" record. Foto holds the server-side filename of
// the uploaded photo, set through the separate upload endpoint.
type Student struct {
	ID      int     `json:"id"`
	Nama    string  `json:"nama"`
	NIM     string  `json:"nim"`
	Foto    string  `json:"foto,omitempty"`
	ProdiID int     `json:"prodi_id,omitempty"`
	Prodi   *Prodi  `json:"prodi,omitempty"`
	Alamat  *Alamat `json:"alamat,omitempty"`
}

// Student list sort dimensions accepted by the backend.
const (
	StudentSortByNama = "nama"
	StudentSortByNIM  = "nim"
)
