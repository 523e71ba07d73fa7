package generator

// categoryStrategies holds the fixed test strategy per class archetype.
var categoryStrategies = map[Category]string{
	CategoryController: `CLASS TYPE: REST Controller
TEST STRATEGY:
- Use @WebMvcTest or MockMvc for HTTP-level testing
- Test each endpoint's HTTP method (GET, POST, PUT, DELETE)
- Verify correct HTTP status codes (200, 201, 400, 404, 500)
- Test request validation (@Valid, @RequestBody, @PathVariable, @RequestParam)
- Test response body structure and content
- Mock the service layer with @MockBean
- Test error responses and exception handlers
- Verify correct Content-Type headers`,

	CategoryService: `CLASS TYPE: Business Service
TEST STRATEGY:
- Use @ExtendWith(MockitoExtension.class) for unit testing
- Mock all dependencies (@Mock for repositories, other services)
- Focus on business logic correctness
- Test all conditional branches and decision paths
- Verify interactions with mocked dependencies (verify() calls)
- Test transaction boundaries if applicable
- Cover all edge cases in business rules`,

	CategoryRepository: `CLASS TYPE: Data Repository
TEST STRATEGY:
- Use @DataJpaTest with embedded H2 database
- Test custom query methods
- Verify CRUD operations work correctly
- Test query results with specific test data
- Use @BeforeEach to set up test entities
- Test pagination and sorting if applicable
- Verify cascading operations`,

	CategoryEntity: `CLASS TYPE: JPA Entity
TEST STRATEGY:
- Test equals() and hashCode() contract
- Test all validation constraints (@NotNull, @Size, @Email, etc.)
- Test entity relationships (OneToMany, ManyToOne, etc.)
- Test builder/constructor patterns
- Verify getters and setters
- Test toString() output
- Use Jakarta Validation API for constraint testing`,

	CategoryDTO: `CLASS TYPE: Data Transfer Object
TEST STRATEGY:
- Test serialization/deserialization (Jackson ObjectMapper)
- Test all getters and setters
- Test builder pattern if present
- Test validation annotations
- Test equals/hashCode if implemented
- Verify no-args and all-args constructors`,

	CategoryUtility: `CLASS TYPE: Utility Class
TEST STRATEGY:
- Test all static methods independently
- Focus on pure function input/output testing
- Test with many edge case inputs
- Verify null handling
- Test boundary values extensively
- Each method should have multiple test cases`,

	CategoryConfig: `CLASS TYPE: Configuration Class
TEST STRATEGY:
- Test that beans are created correctly
- Test conditional bean loading (@ConditionalOn...)
- Verify bean properties and configuration values
- Test with different profiles if applicable`,

	CategoryComponent: `CLASS TYPE: Spring Component
TEST STRATEGY:
- Use @ExtendWith(MockitoExtension.class)
- Mock dependencies
- Test component logic similar to service testing
- Verify lifecycle methods if present`,

	// unknown renders no strategy block
	CategoryUnknown: "",
}

var edgeCaseDescriptions = map[string]string{
	"null":       "Null inputs and null returns",
	"empty":      "Empty collections (List, Set, Map, arrays, empty strings)",
	"boundary":   "Boundary values (0, -1, Integer.MAX_VALUE, Integer.MIN_VALUE)",
	"exception":  "Exception scenarios (expected exceptions, error handling)",
	"concurrent": "Concurrent access patterns and thread safety",
}

const rolePreamble = "You are an expert Java test engineer. Generate comprehensive tests for the following code."

const priorityRules = `PRIORITY RULES:
- HIGH priority edge cases: Generate multiple thorough test methods covering various scenarios
- MEDIUM priority edge cases: Generate at least one solid test method
- LOW priority edge cases: Generate a basic test if applicable
- Edge cases marked OFF should be skipped entirely`

const legacyRequirements = `REQUIREMENTS:
1. Use JUnit 4 annotations (@Test from org.junit.Test, @Before, @After)
2. Use @RunWith(MockitoJUnitRunner.class) if mocking is needed
3. Include all necessary imports
4. Create separate test methods for each scenario
5. Use descriptive test names following pattern: methodName_shouldBehavior_whenCondition
6. Add meaningful assertions
7. Respect the priority levels
8. Use @Test(expected = Exception.class) for exception testing`

const modernRequirements = `REQUIREMENTS:
1. Use JUnit 5 annotations (@Test, @BeforeEach, @AfterEach if needed)
2. Include all necessary imports (org.junit.jupiter.api.*, static assertions)
3. If the code has dependencies, use Mockito (@Mock, @InjectMocks, @ExtendWith(MockitoExtension.class))
4. Create separate test methods for each scenario
5. Use descriptive test names following pattern: methodName_shouldBehavior_whenCondition
6. Add meaningful assertions that verify business logic
7. Respect the priority levels when deciding how many tests to generate
8. Add brief comments explaining complex test logic
9. Include setup methods (@BeforeEach) if test data needs initialization
10. Use assertThrows() for exception testing
11. Use assertAll() for multiple related assertions`

const assertJRequirement = "12. Prefer AssertJ assertThat() fluent assertions over assertEquals"

const hamcrestRequirement = "12. Prefer Hamcrest assertThat() with matchers over assertEquals"

const outputFormat = `OUTPUT FORMAT:
- Return ONLY the complete Java test class code
- No markdown code blocks, no explanations outside the code
- Ready to copy-paste into an IDE and run immediately
- Ensure proper package declaration if the original code has one`
