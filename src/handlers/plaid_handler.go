package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"fintrack-server/src/db"
	dbsql "fintrack-server/src/db/sql"
	"fintrack-server/src/rules"

	"github.com/avast/retry-go"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
)

func CreateLinkToken(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		user := plaid.LinkTokenCreateRequestUser{
			ClientUserId: strconv.FormatInt(userID, 10),
		}
		request := plaid.NewLinkTokenCreateRequest(
			"Fintrack",
			"en",
			[]plaid.CountryCode{plaid.COUNTRYCODE_US},
		)
		request.SetUser(user)
		request.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})
		resp, _, err := plaidClient.PlaidApi.LinkTokenCreate(context.Background()).LinkTokenCreateRequest(*request).Execute()
		if err != nil {
			http.Error(w, "Failed to create link token", http.StatusInternalServerError)
			log.Printf("ERROR: Plaid link token creation failed for user %d: %v", userID, err)
			return
		}

		linkToken := resp.GetLinkToken()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"link_token": linkToken})
	}
}

func ExchangePublicToken(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			PublicToken string `json:"public_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode exchange public token request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		exchangeReq := plaid.NewItemPublicTokenExchangeRequest(req.PublicToken)
		exchangeResp, _, err := plaidClient.PlaidApi.ItemPublicTokenExchange(context.Background()).ItemPublicTokenExchangeRequest(
			*exchangeReq,
		).Execute()
		if err != nil {
			http.Error(w, "Failed to exchange public token", http.StatusInternalServerError)
			log.Printf("ERROR: Plaid public token exchange failed for user %d: %v", userID, err)
			return
		}

		accessToken := exchangeResp.GetAccessToken()
		itemID := exchangeResp.GetItemId()

		// Institution details are optional; the exchange still succeeds
		// without them.
		institutionName := ""
		itemReq := plaid.NewItemGetRequest(accessToken)
		itemResp, _, err := plaidClient.PlaidApi.ItemGet(context.Background()).ItemGetRequest(*itemReq).Execute()
		if err != nil {
			log.Printf("ERROR: Failed to fetch item details for user %d: %v", userID, err)
		} else if name, ok := itemResp.GetItem().AdditionalProperties["institution_name"].(string); ok {
			institutionName = name
		}

		dbItemID, err := dbsql.SavePlaidItem(r.Context(), pool, userID, itemID, accessToken, institutionName)
		if err != nil {
			http.Error(w, "Failed to save plaid item", http.StatusInternalServerError)
			log.Printf("ERROR: Failed to save plaid item for user %d: %v", userID, err)
			return
		}

		log.Printf("INFO: Exchanged public token and saved plaid item %d for user %d", dbItemID, userID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":      dbItemID,
			"item_id": itemID,
		})
	}
}

func GetPlaidAccounts(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		itemID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}

		item, err := dbsql.GetPlaidItemByID(r.Context(), pool, userID, itemID)
		if err != nil {
			http.Error(w, "plaid item not found", http.StatusNotFound)
			log.Printf("ERROR: Failed to get plaid item %d for user %d: %v", itemID, userID, err)
			return
		}

		request := plaid.NewAccountsGetRequest(item.AccessToken)
		accountsResp, _, err := plaidClient.PlaidApi.AccountsGet(context.Background()).AccountsGetRequest(*request).Execute()
		if err != nil {
			http.Error(w, "Failed to fetch accounts from Plaid", http.StatusInternalServerError)
			log.Printf("ERROR: Failed to fetch accounts for user %d, item %d: %v", userID, itemID, err)
			return
		}

		if err := dbsql.SavePlaidAccounts(r.Context(), pool, userID, itemID, accountsResp.GetAccounts()); err != nil {
			http.Error(w, "Failed to save accounts", http.StatusInternalServerError)
			log.Printf("ERROR: Failed to save accounts for user %d: %v", userID, err)
			return
		}

		accounts, err := dbsql.GetAllBankAccounts(r.Context(), pool, userID)
		if err != nil {
			http.Error(w, "Failed to retrieve accounts", http.StatusInternalServerError)
			log.Printf("ERROR: Failed to get bank accounts for user %d: %v", userID, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(accounts)
	}
}

// SyncTransactions pulls transactions from Plaid, stores the new ones, and
// runs the user's rules in apply mode scoped to the freshly inserted rows.
func SyncTransactions(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		itemID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}

		item, err := dbsql.GetPlaidItemByID(r.Context(), pool, userID, itemID)
		if err != nil {
			http.Error(w, "plaid item not found", http.StatusNotFound)
			log.Printf("ERROR: Failed to get plaid item %d for user %d: %v", itemID, userID, err)
			return
		}

		var syncResp plaid.TransactionsSyncResponse
		err = retry.Do(
			func() error {
				request := plaid.NewTransactionsSyncRequest(item.AccessToken)
				if item.SyncCursor != "" {
					request.SetCursor(item.SyncCursor)
				}
				resp, _, err := plaidClient.PlaidApi.TransactionsSync(context.Background()).TransactionsSyncRequest(*request).Execute()
				if err != nil {
					return err
				}
				syncResp = resp
				return nil
			},
			retry.Attempts(3),
			retry.Context(r.Context()),
		)
		if err != nil {
			http.Error(w, "Failed to fetch transactions", http.StatusInternalServerError)
			log.Printf("ERROR: Failed to sync transactions for user %d, item %d: %v", userID, itemID, err)
			return
		}

		insertedIDs, err := dbsql.SaveSyncedTransactions(r.Context(), pool, userID, syncResp.GetAdded())
		if err != nil {
			http.Error(w, "Failed to save transactions", http.StatusInternalServerError)
			log.Printf("ERROR: Failed to save synced transactions for user %d: %v", userID, err)
			return
		}

		if err := dbsql.UpdateSyncCursor(r.Context(), pool, itemID, syncResp.GetNextCursor()); err != nil {
			http.Error(w, "Failed to update sync cursor", http.StatusInternalServerError)
			log.Printf("ERROR: Failed to update sync cursor for item %d: %v", itemID, err)
			return
		}

		db.ClearAllTransactionCaches()

		var result rules.Result
		if len(insertedIDs) > 0 {
			result, err = dbsql.RunTransactionRules(r.Context(), pool, userID, rules.ModeApply, insertedIDs)
			if err != nil {
				log.Printf("ERROR: Failed to apply transaction rules after sync for user %d: %v", userID, err)
			}
		}

		log.Printf("INFO: Synced %d new transactions for user %d, item %d; rules updated %d",
			len(insertedIDs), userID, itemID, result.Updated)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"added":         len(insertedIDs),
			"rules_updated": result.Updated,
		})
	}
}

func GetPlaidItemsFromDB(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		items, err := dbsql.GetPlaidItems(r.Context(), pool, userID)
		if err != nil {
			http.Error(w, "Failed to retrieve plaid items", http.StatusInternalServerError)
			log.Printf("ERROR: Failed to get plaid items for user %d: %v", userID, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	}
}

func DeletePlaidItem(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		itemID, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}
		if err := dbsql.DeletePlaidItem(r.Context(), pool, userID, itemID); err != nil {
			log.Printf("ERROR: Failed to delete plaid item %d for user %d: %v", itemID, userID, err)
			http.Error(w, "failed to delete plaid item", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted plaid item %d for user %d", itemID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "plaid item deleted"})
	}
}
