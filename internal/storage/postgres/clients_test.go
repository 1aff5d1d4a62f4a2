package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

var clientRowColumns = []string{"id", "name", "name_key", "placeholder", "address", "created_at"}

func TestClientRepositoryLookups(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &clientRepository{q: storage.pool}
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("FROM clients c WHERE c.id=").WithArgs(int64(1)).WillReturnRows(
		pgxmockv3.NewRows(clientRowColumns).AddRow(int64(1), "Café Atlas", "cafe atlas", false, "", now))
	client, err := repo.GetByID(ctx, 1)
	if err != nil || client.NameKey != "cafe atlas" {
		t.Fatalf("unexpected client: %+v err=%v", client, err)
	}

	mock.ExpectQuery("FROM clients c WHERE c.name_key=").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByNameKey(ctx, "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM clients c WHERE c.name_key=").WithArgs("boom").WillReturnError(errors.New("boom"))
	if _, err := repo.GetByNameKey(ctx, "boom"); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected raw error, got %v", err)
	}

	mock.ExpectQuery("JOIN client_identities i").WithArgs("+212600000001").WillReturnRows(
		pgxmockv3.NewRows(clientRowColumns).
			AddRow(int64(1), "Café Atlas", "cafe atlas", false, "", now).
			AddRow(int64(2), "Hotel Sahara", "hotel sahara", false, "", now))
	holders, err := repo.ListByIdentity(ctx, "+212600000001")
	if err != nil || len(holders) != 2 {
		t.Fatalf("unexpected holders: %+v err=%v", holders, err)
	}

	mock.ExpectQuery("JOIN client_identities i").WithArgs("x").WillReturnError(errors.New("query"))
	if _, err := repo.ListByIdentity(ctx, "x"); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("JOIN client_identities i").WithArgs("y").WillReturnRows(
		pgxmockv3.NewRows(clientRowColumns).
			AddRow(int64(1), "a", "a", false, "", now).
			AddRow(int64(2), "b", "b", false, "", now).
			RowError(1, errors.New("row")))
	if _, err := repo.ListByIdentity(ctx, "y"); err == nil || err.Error() != "row" {
		t.Fatalf("expected row error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestClientRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &clientRepository{q: storage.pool}
	ctx := context.Background()
	now := time.Now()
	input := model.Client{Name: "Café Atlas", NameKey: "cafe atlas"}

	mock.ExpectQuery("INSERT INTO clients").WithArgs("Café Atlas", "cafe atlas", false, "").WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(5), now))
	client, created, err := repo.Create(ctx, input)
	if err != nil || !created || client.ID != 5 || client.Name != "Café Atlas" {
		t.Fatalf("unexpected result: %+v created=%v err=%v", client, created, err)
	}

	mock.ExpectQuery("INSERT INTO clients").WithArgs("Café Atlas", "cafe atlas", false, "").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("FROM clients c WHERE c.name_key=").WithArgs("cafe atlas").WillReturnRows(
		pgxmockv3.NewRows(clientRowColumns).AddRow(int64(3), "Cafe Atlas", "cafe atlas", false, "", now))
	client, created, err = repo.Create(ctx, input)
	if err != nil || created || client.ID != 3 {
		t.Fatalf("unexpected result: %+v created=%v err=%v", client, created, err)
	}

	mock.ExpectQuery("INSERT INTO clients").WithArgs("Café Atlas", "cafe atlas", false, "").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("FROM clients c WHERE c.name_key=").WithArgs("cafe atlas").WillReturnError(errors.New("lookup"))
	if _, _, err := repo.Create(ctx, input); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("INSERT INTO clients").WithArgs("Café Atlas", "cafe atlas", false, "").WillReturnError(errors.New("insert"))
	if _, _, err := repo.Create(ctx, input); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestClientRepositoryAddIdentity(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &clientRepository{q: storage.pool}
	ctx := context.Background()
	identity := model.ContactIdentity{Kind: model.IdentityPhone, Value: "+212600000001"}

	mock.ExpectExec("INSERT INTO client_identities").WithArgs(int64(1), model.IdentityPhone, "+212600000001").
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	if err := repo.AddIdentity(ctx, 1, identity); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("INSERT INTO client_identities").WithArgs(int64(9), model.IdentityPhone, "+212600000001").
		WillReturnError(&pgconn.PgError{Code: "23503"})
	if err := repo.AddIdentity(ctx, 9, identity); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("INSERT INTO client_identities").WithArgs(anyArgs(3)...).WillReturnError(errors.New("exec"))
	if err := repo.AddIdentity(ctx, 1, identity); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestClientRepositoryList(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &clientRepository{q: storage.pool}
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("FROM clients c ORDER BY c.name").WillReturnRows(
		pgxmockv3.NewRows(clientRowColumns).
			AddRow(int64(1), "Café Atlas", "cafe atlas", false, "", now).
			AddRow(int64(2), "channel client +212600000001", "channel client 212600000001", true, "", now))
	mock.ExpectQuery("SELECT client_id, kind, value FROM client_identities").WillReturnRows(
		pgxmockv3.NewRows([]string{"client_id", "kind", "value"}).
			AddRow(int64(1), model.IdentityEmail, "atlas@example.ma").
			AddRow(int64(1), model.IdentityPhone, "+212600000001").
			AddRow(int64(2), model.IdentityPhone, "+212600000001"))
	clients, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clients) != 2 || len(clients[0].Identities) != 2 || len(clients[1].Identities) != 1 || !clients[1].Placeholder {
		t.Fatalf("unexpected clients: %+v", clients)
	}

	mock.ExpectQuery("FROM clients c ORDER BY c.name").WillReturnRows(pgxmockv3.NewRows(clientRowColumns))
	clients, err = repo.List(ctx)
	if err != nil || len(clients) != 0 {
		t.Fatalf("expected empty list, got %v err=%v", clients, err)
	}

	mock.ExpectQuery("FROM clients c ORDER BY c.name").WillReturnRows(
		pgxmockv3.NewRows(clientRowColumns).AddRow(int64(1), "a", "a", false, "", now))
	mock.ExpectQuery("SELECT client_id, kind, value FROM client_identities").WillReturnError(errors.New("identities"))
	if _, err := repo.List(ctx); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM clients c ORDER BY c.name").WillReturnRows(
		pgxmockv3.NewRows(clientRowColumns).AddRow("bad", "a", "a", false, "", now))
	if _, err := repo.List(ctx); err == nil {
		t.Fatal("expected scan error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{q: storage.pool}
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("INSERT INTO products").WithArgs(model.ProductFlatBottomSachet, "SFP", "Sachet kraft").WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "description", "created_at"}).AddRow(int64(4), "Sachet kraft", now))
	product, err := repo.Ensure(ctx, model.Product{Type: model.ProductFlatBottomSachet, Code: "SFP", Description: "Sachet kraft"})
	if err != nil || product.ID != 4 || product.Code != "SFP" {
		t.Fatalf("unexpected product: %+v err=%v", product, err)
	}

	mock.ExpectQuery("INSERT INTO products").WithArgs(model.ProductFlatBottomSachet, "", "").WillReturnError(errors.New("insert"))
	if _, err := repo.Ensure(ctx, model.Product{Type: model.ProductFlatBottomSachet}); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("SELECT id, type, code, description, created_at FROM products").WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "type", "code", "description", "created_at"}).
			AddRow(int64(4), model.ProductFlatBottomSachet, "SFP", "Sachet kraft", now))
	products, err := repo.List(ctx)
	if err != nil || len(products) != 1 || products[0].Type != model.ProductFlatBottomSachet {
		t.Fatalf("unexpected products: %+v err=%v", products, err)
	}

	mock.ExpectQuery("SELECT id, type, code, description, created_at FROM products").WillReturnError(errors.New("query"))
	if _, err := repo.List(ctx); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
