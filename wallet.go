// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package zpcwallet

import (
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/google/uuid"
)

// DefaultWalletName is used when a wallet is created without a name.
const DefaultWalletName = "ZippyCoin Wallet"

// TrustTrend is the direction of an account's trust score.
type TrustTrend string

// Trust trends.
const (
	TrustIncreasing TrustTrend = "increasing"
	TrustStable     TrustTrend = "stable"
	TrustDecreasing TrustTrend = "decreasing"
)

// TrustScore is filled in by the trust service; the core only provides the
// neutral starting value.
type TrustScore struct {
	Current int        `json:"current"`
	Trend   TrustTrend `json:"trend"`
}

// WalletAccount is the public view of one account. It never carries private
// key material.
type WalletAccount struct {
	Index          uint32     `json:"index"`
	DisplayName    string     `json:"name"`
	Address        string     `json:"address"`
	PublicKeyHex   string     `json:"publicKey"`
	DerivationPath string     `json:"derivationPath"`
	Balance        uint64     `json:"balance"`
	TrustScore     TrustScore `json:"trustScore"`
}

// Credentials are the secrets supplied when a wallet is created or restored.
type Credentials struct {
	// Passphrase encrypts the root seed at rest. Required.
	Passphrase string

	// SeedPassphrase is the optional BIP39 passphrase mixed into the seed.
	// A different SeedPassphrase yields an unrelated wallet.
	SeedPassphrase string
}

// Generated is the result of creating a new wallet. The mnemonic must be
// shown to the user once and then discarded.
type Generated struct {
	Mnemonic string
	Accounts []WalletAccount
}

// walletState is either locked or unlocked.
type walletState interface {
	isWalletState()
}

type lockedState struct{}

type unlockedState struct {
	seed   *RootSeed
	master *KeyNode
}

func (lockedState) isWalletState()    {}
func (*unlockedState) isWalletState() {}

// Wallet is a caller-owned wallet handle. It starts locked; Generate,
// Restore and Unlock load the root seed and Lock discards it.
//
// Read operations (deriving accounts, signing) may run concurrently. Lock
// waits for them and every call after it returns ErrWalletNotInitialized.
type Wallet struct {
	cfg          Config
	store        Store
	vaultVersion VaultVersion

	// recordMu serializes read-modify-write cycles on the stored record.
	recordMu sync.Mutex

	mu           sync.RWMutex
	state        walletState
	name         string
	accountCount int
}

// New returns a locked wallet handle for cfg, persisting through store.
func New(cfg Config, store Store) (*Wallet, error) {
	if !cfg.valid() {
		return nil, fmt.Errorf("%w: use NewConfig or DefaultConfig", ErrInvalidConfig)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidConfig)
	}

	return &Wallet{
		cfg:          cfg,
		store:        store,
		vaultVersion: CurrentVaultVersion,
		state:        lockedState{},
	}, nil
}

// Config returns the wallet's configuration.
func (w *Wallet) Config() Config {
	return w.cfg
}

// Name returns the wallet's display name, empty until a record is loaded.
func (w *Wallet) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// AccountCount returns how many accounts the user has opened.
func (w *Wallet) AccountCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.accountCount
}

// IsUnlocked reports whether the root seed is loaded.
func (w *Wallet) IsUnlocked() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.state.(*unlockedState)
	return ok
}

// Generate creates a new wallet from fresh entropy, stores it encrypted under
// creds.Passphrase and leaves the handle unlocked. It returns the recovery
// phrase and the first account.
func (w *Wallet) Generate(name string, creds Credentials) (*Generated, error) {
	if creds.Passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	mnemonic, err := GenerateMnemonic()
	if err != nil {
		return nil, err
	}

	accounts, err := w.create(mnemonic, name, creds)
	if err != nil {
		return nil, err
	}

	log.Infof("Generated new wallet %q on %s", w.Name(), w.cfg.network)

	return &Generated{Mnemonic: mnemonic, Accounts: accounts}, nil
}

// Restore rebuilds a wallet from its recovery phrase, stores it encrypted
// under creds.Passphrase and leaves the handle unlocked. An invalid phrase
// fails with ErrInvalidMnemonic before anything is derived or stored.
func (w *Wallet) Restore(mnemonic, name string, creds Credentials) ([]WalletAccount, error) {
	if creds.Passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}

	accounts, err := w.create(mnemonic, name, creds)
	if err != nil {
		return nil, err
	}

	log.Infof("Restored wallet %q on %s", w.Name(), w.cfg.network)

	return accounts, nil
}

func (w *Wallet) create(mnemonic, name string, creds Credentials) ([]WalletAccount, error) {
	if name == "" {
		name = DefaultWalletName
	}

	seed, err := DeriveSeed(mnemonic, creds.SeedPassphrase)
	if err != nil {
		return nil, err
	}

	blob, err := EncryptSeedVersion(&seed, creds.Passphrase, w.vaultVersion)
	if err != nil {
		seed.Zero()
		return nil, fmt.Errorf("could not encrypt seed: %w", err)
	}

	rec := WalletRecord{
		ID:           uuid.NewString(),
		Name:         name,
		Network:      w.cfg.network,
		CoinType:     w.cfg.coinType,
		CreatedAt:    time.Now().UTC(),
		AccountCount: 1,
		Seed:         blob,
	}
	if err := w.store.SaveRecord(rec); err != nil {
		seed.Zero()
		return nil, fmt.Errorf("could not save wallet: %w", err)
	}

	if err := w.load(&seed, rec); err != nil {
		return nil, err
	}

	return w.Accounts(rec.AccountCount)
}

// Unlock loads the stored record and decrypts the root seed with
// passphrase. A wrong passphrase or a damaged record fails with
// ErrDecryptionFailed and leaves the handle as it was.
func (w *Wallet) Unlock(passphrase string) error {
	rec, err := w.store.LoadRecord()
	if err != nil {
		return err
	}
	if rec.Network != w.cfg.network || rec.CoinType != w.cfg.coinType {
		return fmt.Errorf("%w: record is %s/%d, config is %s/%d", ErrConfigMismatch,
			rec.Network, rec.CoinType, w.cfg.network, w.cfg.coinType)
	}

	seed, err := DecryptSeed(rec.Seed, passphrase)
	if err != nil {
		log.Warnf("Unlock of wallet %q failed", rec.Name)
		return err
	}

	if err := w.load(&seed, rec); err != nil {
		return err
	}

	log.Infof("Unlocked wallet %q", rec.Name)
	return nil
}

// load takes ownership of seed and swaps the handle to the unlocked state.
func (w *Wallet) load(seed *RootSeed, rec WalletRecord) error {
	master, err := DeriveMaster(seed, w.cfg)
	if err != nil {
		seed.Zero()
		return err
	}

	owned := new(RootSeed)
	*owned = *seed
	seed.Zero()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.discardLocked()
	w.state = &unlockedState{seed: owned, master: master}
	w.name = rec.Name
	w.accountCount = rec.AccountCount

	return nil
}

// Lock zeroes the in-memory root seed and master key. Any later operation
// that needs them fails with ErrWalletNotInitialized until Unlock succeeds.
func (w *Wallet) Lock() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.state.(*unlockedState); ok {
		log.Infof("Locked wallet %q", w.name)
	}
	w.discardLocked()
}

// discardLocked must be called with mu held for writing.
func (w *Wallet) discardLocked() {
	if st, ok := w.state.(*unlockedState); ok {
		st.seed.Zero()
		st.master.Zero()
	}
	w.state = lockedState{}
}

// unlocked returns the unlocked state. mu must be held.
func (w *Wallet) unlocked() (*unlockedState, error) {
	st, ok := w.state.(*unlockedState)
	if !ok {
		return nil, ErrWalletNotInitialized
	}
	return st, nil
}

// derive returns the node at path. The caller owns and must Zero it.
func (w *Wallet) derive(path DerivationPath) (*KeyNode, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	st, err := w.unlocked()
	if err != nil {
		return nil, err
	}
	return st.master.DerivePath(path)
}

func checkAccountIndex(index uint32) error {
	if IsHardened(index) {
		return fmt.Errorf("%w: account index %d out of range", ErrInvalidPath, index)
	}
	return nil
}

func (w *Wallet) receivingNode(index uint32) (*KeyNode, error) {
	if err := checkAccountIndex(index); err != nil {
		return nil, err
	}
	return w.derive(ReceivingPath(w.cfg.coinType, index))
}

// accountNode returns m/44'/coinType'/index', the node that signs for the
// account.
func (w *Wallet) accountNode(index uint32) (*KeyNode, error) {
	if err := checkAccountIndex(index); err != nil {
		return nil, err
	}
	return w.derive(AccountPath(w.cfg.coinType, index))
}

// DeriveAccount returns the public view of account index, built from its
// receiving key at m/44'/coinType'/index'/0/0.
//
// Parameters:
//   - index: The account index, below 2^31
//
// Returns:
//   - WalletAccount: Address, public key and path of the account
//   - error: ErrWalletNotInitialized while locked, ErrInvalidPath for a
//     hardened index
func (w *Wallet) DeriveAccount(index uint32) (WalletAccount, error) {
	node, err := w.receivingNode(index)
	if err != nil {
		return WalletAccount{}, err
	}
	defer node.Zero()

	pub, err := node.PublicKey()
	if err != nil {
		return WalletAccount{}, err
	}

	log.Debugf("Derived account %d", index)

	return WalletAccount{
		Index:          index,
		DisplayName:    fmt.Sprintf("Account %d", index+1),
		Address:        EncodeAddress(pub),
		PublicKeyHex:   hex.EncodeToString(pub),
		DerivationPath: ReceivingPath(w.cfg.coinType, index).String(),
		TrustScore:     TrustScore{Trend: TrustStable},
	}, nil
}

// Accounts derives accounts 0 through count-1.
func (w *Wallet) Accounts(count int) ([]WalletAccount, error) {
	if count < 0 {
		return nil, fmt.Errorf("negative account count %d", count)
	}
	if uint64(count) > uint64(hdkeychain.HardenedKeyStart) {
		return nil, fmt.Errorf("%w: account count %d exceeds %d", ErrInvalidPath,
			count, hdkeychain.HardenedKeyStart)
	}

	accounts := make([]WalletAccount, 0, min(count, 256))
	for i := 0; i < count; i++ {
		acct, err := w.DeriveAccount(uint32(i))
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// AddAccount opens the next account and records the new account count.
func (w *Wallet) AddAccount() (WalletAccount, error) {
	w.recordMu.Lock()
	defer w.recordMu.Unlock()

	acct, err := w.DeriveAccount(uint32(w.AccountCount()))
	if err != nil {
		return WalletAccount{}, err
	}

	rec, err := w.store.LoadRecord()
	if err != nil {
		return WalletAccount{}, err
	}
	rec.AccountCount = int(acct.Index) + 1
	if err := w.store.SaveRecord(rec); err != nil {
		return WalletAccount{}, fmt.Errorf("could not save wallet: %w", err)
	}

	w.mu.Lock()
	w.accountCount = rec.AccountCount
	w.mu.Unlock()

	return acct, nil
}

// Sign signs payload under algo with the key of account index at
// m/44'/coinType'/index'. Signatures verify against that node's public key,
// which is also the key inside AccountExtendedPublicKey.
func (w *Wallet) Sign(index uint32, payload []byte, algo Algorithm) (Signature, error) {
	if algo == nil {
		return Signature{}, fmt.Errorf("%w: nil algorithm", ErrUnknownAlgorithm)
	}

	node, err := w.accountNode(index)
	if err != nil {
		return Signature{}, err
	}
	defer node.Zero()

	sig, err := algo.Sign(node, payload)
	if err != nil {
		return Signature{}, fmt.Errorf("could not sign with %s: %w", algo.ID(), err)
	}

	return Signature{
		SignatureHex: hex.EncodeToString(sig),
		Algorithm:    algo.ID(),
	}, nil
}

// SignClassical signs payload with secp256k1 ECDSA.
func (w *Wallet) SignClassical(index uint32, payload []byte) (Signature, error) {
	return w.Sign(index, payload, Classical{})
}

// SignQuantumResistant signs payload with the quantum-resistant algorithm.
func (w *Wallet) SignQuantumResistant(index uint32, payload []byte) (Signature, error) {
	return w.Sign(index, payload, QuantumResistant{})
}

// Verify checks sig over payload against account index. It returns
// ErrInvalidSignature when the signature does not verify.
func (w *Wallet) Verify(index uint32, payload []byte, sig Signature) error {
	algo, err := AlgorithmByID(sig.Algorithm)
	if err != nil {
		return err
	}

	raw, err := hex.DecodeString(sig.SignatureHex)
	if err != nil {
		return fmt.Errorf("%w: signature is not hex", ErrInvalidSignature)
	}

	node, err := w.accountNode(index)
	if err != nil {
		return err
	}
	defer node.Zero()

	pub, err := algo.PublicKey(node)
	if err != nil {
		return err
	}

	if !algo.Verify(pub, payload, raw) {
		return ErrInvalidSignature
	}
	return nil
}

// Backup encrypts the loaded root seed under passphrase, which may differ
// from the one protecting the stored record. Every call uses a fresh salt
// and nonce.
func (w *Wallet) Backup(passphrase string) (EncryptedSeedBlob, error) {
	// Copy the seed so the slow stretching runs without holding the lock.
	w.mu.RLock()
	st, err := w.unlocked()
	if err != nil {
		w.mu.RUnlock()
		return EncryptedSeedBlob{}, err
	}
	seed := *st.seed
	w.mu.RUnlock()
	defer seed.Zero()

	return EncryptSeedVersion(&seed, passphrase, w.vaultVersion)
}

// UpgradeVault re-encrypts the stored record with the current vault version
// if it was written with a weaker one. It reports whether a rewrite
// happened. The handle may be locked.
func (w *Wallet) UpgradeVault(passphrase string) (bool, error) {
	w.recordMu.Lock()
	defer w.recordMu.Unlock()

	rec, err := w.store.LoadRecord()
	if err != nil {
		return false, err
	}

	needs, err := NeedsUpgrade(rec.Seed)
	if err != nil || !needs {
		return false, err
	}

	seed, err := DecryptSeed(rec.Seed, passphrase)
	if err != nil {
		return false, err
	}
	defer seed.Zero()

	blob, err := EncryptSeed(&seed, passphrase)
	if err != nil {
		return false, err
	}
	rec.Seed = blob
	if err := w.store.SaveRecord(rec); err != nil {
		return false, fmt.Errorf("could not save wallet: %w", err)
	}

	log.Infof("Upgraded vault of wallet %q to version %d", rec.Name, CurrentVaultVersion)
	return true, nil
}

// MasterFingerprint returns the hex fingerprint of the master key, which
// identifies the wallet without revealing any key.
func (w *Wallet) MasterFingerprint() (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	st, err := w.unlocked()
	if err != nil {
		return "", err
	}
	fp, err := st.master.Fingerprint()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%08x", fp), nil
}

// AccountExtendedPublicKey returns the extended public key of account index
// at m/44'/coinType'/index', for watch-only use.
func (w *Wallet) AccountExtendedPublicKey(index uint32) (string, error) {
	node, err := w.accountNode(index)
	if err != nil {
		return "", err
	}
	defer node.Zero()

	return node.ExtendedPublicKey()
}
