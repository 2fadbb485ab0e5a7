package models

import "time"

// Author writes books.
//
// table_name: authors
type Author struct {
	ID    int    `po:"id,primaryKey,serial"`
	Name  string `po:"name,varchar(100),notNull"` // Pen name
	Books []Book `po:"-,hasMany,foreignKey(author_id),references(id)"`
}

// table_name: books
type Book struct {
	ID        int       `po:"id,primaryKey,serial"`
	Title     string    `po:"title,varchar(255),notNull"`
	ISBN      string    `po:"isbn,varchar(20),unique"`
	Author    *Author   `po:"-,belongsTo,foreignKey(author_id),references(id)"`
	Tags      []Tag     `po:"tags,manyToMany,joinTable(book_tags)"`
	Published time.Time `po:"published_at,timestamptz"`
	Metadata  string    `po:"metadata,jsonb"`
	Location  string    `po:"location,point"`
	Extra     string    `po:"extra"`
	Ignored   string
}

// table_name: tags
type Tag struct {
	ID    int    `po:"id,primaryKey,serial"`
	Label string `po:"label,varchar(50),unique,notNull"`
}

type Review struct {
	ID     int    `po:"id,primaryKey,uuid"`
	BookID int    `po:"book_id,integer,notNull,fk:books(id)"`
	UserID int    `po:"user_id,integer,fk:users(id)"`
	Body   string `po:"body,text"`
}

type notAModel struct {
	Name string `json:"name"`
}
