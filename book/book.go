package book

/* Book is the only entity of the catalog.
 * It has no tags: the web and storage layers have their own representations.
 * ID zero means the book was never saved.
 */
type Book struct {
	ID       int64
	Title    string
	Author   string
	Category string
}

// IsNew reports whether the book still needs an identifier from the store
func (b Book) IsNew() bool {
	return b.ID == 0
}
