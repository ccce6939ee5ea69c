package entities

// Genre - жанр фильма из справочника.
type Genre struct {
	ID   int
	Name string
}

// Mpa - возрастной рейтинг MPA из справочника.
type Mpa struct {
	ID   int
	Name string
}
